package ledgerfake

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/middleware"
	"github.com/go-petr/pet-bank-client/pkg/errorspkg"
	"github.com/go-petr/pet-bank-client/pkg/tokenpkg"
	"github.com/go-petr/pet-bank-client/pkg/web"
)

// RefreshTokenDuration is the lifetime of the refresh token issued at login.
const RefreshTokenDuration = 24 * time.Hour

// TransferCreated is the message of an accepted transfer.
const TransferCreated = "Transaction created successfully"

// Handler serves the ledger API from a Store.
type Handler struct {
	store               *Store
	tokenMaker          tokenpkg.Maker
	accessTokenDuration time.Duration
}

// NewHandler returns the ledger API handler.
func NewHandler(store *Store, tokenMaker tokenpkg.Maker, accessTokenDuration time.Duration) *Handler {
	return &Handler{
		store:               store,
		tokenMaker:          tokenMaker,
		accessTokenDuration: accessTokenDuration,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Tokens domain.Tokens  `json:"tokens"`
	User   domain.Profile `json:"user"`
}

// Login handles http login request and returns the token pair and the user.
func (h *Handler) Login(gctx *gin.Context) {
	l := zerolog.Ctx(gctx.Request.Context())

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, bindError(err))

		return
	}

	profile, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		l.Info().Err(err).Str("username", req.Username).Send()
		gctx.JSON(http.StatusBadRequest, web.FieldErrors{"non_field_errors": {err.Error()}})

		return
	}

	access, _, err := h.tokenMaker.CreateToken(profile.Username, h.accessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Message(errorspkg.ErrInternal))

		return
	}

	refresh, _, err := h.tokenMaker.CreateToken(profile.Username, RefreshTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Message(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, loginResponse{
		Tokens: domain.Tokens{
			Access:  domain.Credential(access),
			Refresh: domain.Credential(refresh),
		},
		User: profile,
	})
}

// Balance lists the accounts of the authenticated user.
func (h *Handler) Balance(gctx *gin.Context) {
	profile, ok := h.currentUser(gctx)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, h.store.Accounts(profile.ID))
}

// Transactions lists the transactions of the authenticated user, most recent first.
func (h *Handler) Transactions(gctx *gin.Context) {
	profile, ok := h.currentUser(gctx)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, h.store.Transactions(profile.ID))
}

// Profile returns the profile of the authenticated user.
func (h *Handler) Profile(gctx *gin.Context) {
	profile, ok := h.currentUser(gctx)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, profile)
}

// Cards lists the cards of the authenticated user.
func (h *Handler) Cards(gctx *gin.Context) {
	profile, ok := h.currentUser(gctx)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, h.store.Cards(profile.ID))
}

type transferRequest struct {
	From   string `json:"from_account" binding:"required,accountnumber"`
	To     string `json:"to_account" binding:"required,accountnumber"`
	Amount string `json:"amount" binding:"required,numeric"`
}

type transferResponse struct {
	Message     string             `json:"message"`
	Transaction domain.Transaction `json:"transaction"`
}

// CreateTransfer handles http request to transfer money between two accounts.
func (h *Handler) CreateTransfer(gctx *gin.Context) {
	l := zerolog.Ctx(gctx.Request.Context())

	profile, ok := h.currentUser(gctx)
	if !ok {
		return
	}

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, bindError(err))

		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.FieldErrors{"amount": {"A valid number is required."}})
		return
	}

	tx, err := h.store.Transfer(profile.ID, req.From, req.To, amount)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			ErrUnknownAccounts,
			ErrNotOwner,
			ErrBelowMinimum,
			ErrInsufficientFunds:
			gctx.JSON(http.StatusBadRequest, []string{err.Error()})

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Message(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, transferResponse{
		Message:     TransferCreated,
		Transaction: tx,
	})
}

// currentUser resolves the token owner. It answers 401 itself when the user is gone.
func (h *Handler) currentUser(gctx *gin.Context) (domain.Profile, bool) {
	payload := middleware.Payload(gctx)

	profile, err := h.store.Profile(payload.Username)
	if err != nil {
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Detail(err))
		return domain.Profile{}, false
	}

	return profile, true
}

// bindError converts a binding failure into a field error body.
func bindError(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return web.Message(err)
	}

	res := web.FieldErrors{}

	for _, fe := range verrs {
		res[fe.Field()] = append(res[fe.Field()], fieldMessage(fe))
	}

	return res
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "numeric":
		return "A valid number is required."
	case "accountnumber":
		return "Enter a valid account number."
	}

	return fe.Error()
}
