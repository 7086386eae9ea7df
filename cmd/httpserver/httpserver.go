// Package httpserver manages the fake ledger server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-bank-client/internal/ledgerclient"
	"github.com/go-petr/pet-bank-client/internal/ledgerfake"
	"github.com/go-petr/pet-bank-client/internal/middleware"
	"github.com/go-petr/pet-bank-client/pkg/configpkg"
	"github.com/go-petr/pet-bank-client/pkg/tokenpkg"
)

// Server holds the ledger store, handlers router and configuration.
type Server struct {
	Store      *ledgerfake.Store
	Engine     *gin.Engine
	Config     configpkg.Config
	TokenMaker tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type serving store under the ledger API routes.
func New(store *ledgerfake.Store, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	tokenMaker, err := tokenpkg.New(config.TokenKind, config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	handler := ledgerfake.NewHandler(store, tokenMaker, config.AccessTokenDuration)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST(ledgerclient.PathLogin, handler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET(ledgerclient.PathBalance, handler.Balance)
	authRoutes.GET(ledgerclient.PathTransactions, handler.Transactions)
	authRoutes.POST(ledgerclient.PathTransfer, handler.CreateTransfer)
	authRoutes.GET(ledgerclient.PathProfile, handler.Profile)
	authRoutes.GET(ledgerclient.PathCards, handler.Cards)

	if err := ledgerfake.RegisterValidators(); err != nil {
		return nil, errors.New("cannot register account number validator")
	}

	server := &Server{
		Store:      store,
		Engine:     engine,
		Config:     config,
		TokenMaker: tokenMaker,
	}

	return server, nil
}
