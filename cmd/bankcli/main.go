// Package main is a terminal client of the bank: it shows the account summary
// and submits transfers.
//
// Usage:
//
//	bankcli [-config DIR] [-account NUMBER] summary
//	bankcli [-config DIR] [-account NUMBER] history
//	bankcli [-config DIR] transfer FROM TO AMOUNT
//	bankcli [-config DIR] watch
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-bank-client/internal/dashboard"
	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/ledgerclient"
	"github.com/go-petr/pet-bank-client/internal/ledgerview"
	"github.com/go-petr/pet-bank-client/internal/middleware"
	"github.com/go-petr/pet-bank-client/internal/sessiongate"
	"github.com/go-petr/pet-bank-client/internal/snapshotcache"
	"github.com/go-petr/pet-bank-client/internal/transferservice"
	"github.com/go-petr/pet-bank-client/pkg/configpkg"
	"github.com/go-petr/pet-bank-client/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "./configs", "directory holding app.env")
	account := flag.String("account", "", "account number to select")
	flag.Parse()

	config, err := configpkg.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	if err := run(ctx, logger, config, *account, flag.Args()); err != nil {
		logger.Error().Err(err).Send()
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger zerolog.Logger, config configpkg.Config, account string, args []string) error {
	command := "summary"
	if len(args) > 0 {
		command = args[0]
	}

	collector := metrics.NewCollector(logger)

	if config.MetricsAddress != "" {
		server := collector.StartServer(config.MetricsAddress)

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := collector.Shutdown(shutdownCtx, server); err != nil {
				logger.Error().Err(err).Msg("metrics server shutdown failed")
			}
		}()
	}

	minAmount := config.MinAmount(transferservice.DefaultMinAmount)

	dashCfg := dashboard.Config{
		MinAmount:   &minAmount,
		RecentLimit: config.RecentLimit,
		Owner:       config.BankOwner,
		Metrics:     collector,
	}

	if config.RedisAddress != "" {
		rdb, err := snapshotcache.Connect(ctx, config.RedisAddress)
		if err != nil {
			logger.Warn().Err(err).Msg("snapshot cache disabled")
		} else {
			defer rdb.Close()
			dashCfg.Cache = snapshotcache.New(rdb, config.SnapshotTTL)
		}
	}

	gate := sessiongate.New()
	gate.OnInvalidate(func(reason error) {
		if !errors.Is(reason, sessiongate.ErrLoggedOut) {
			logger.Warn().Err(reason).Msg("session ended, log in again")
		}
	})

	client := ledgerclient.New(config.LedgerBaseURL, config.RequestTimeout)
	dash := dashboard.New(client, gate, dashCfg)

	if err := login(ctx, dash, gate, config); err != nil {
		return err
	}
	// Ending the process keeps the cached snapshot for the next run.
	defer gate.Logout()

	if err := dash.Refresh(ctx); err != nil {
		if gate.State() != sessiongate.Authenticated {
			return err
		}

		logger.Warn().Err(err).Msg("showing incomplete data")
	}

	if account != "" && !dash.Select(account) {
		return fmt.Errorf("unknown account %s", account)
	}

	switch command {
	case "summary":
		printSummary(os.Stdout, dash.Summary())
	case "history":
		s := dash.Summary()
		if !s.HasSelection {
			return errors.New("no account to show")
		}

		printHistory(os.Stdout, dash.History(s.Selected.Number))
	case "transfer":
		if len(args) != 4 {
			return errors.New("usage: transfer FROM TO AMOUNT")
		}

		res, err := dash.Transfer(ctx, domain.TransferRequest{From: args[1], To: args[2], Amount: args[3]})
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, res.Message)
		printSummary(os.Stdout, dash.Summary())
	case "watch":
		return watch(ctx, dash, gate, config.RefreshInterval)
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

func login(ctx context.Context, dash *dashboard.Dashboard, gate *sessiongate.Gate, config configpkg.Config) error {
	if config.BankToken != "" {
		return gate.Login(domain.Credential(config.BankToken))
	}

	if config.BankUsername == "" {
		return errors.New("set BANK_TOKEN or BANK_USERNAME and BANK_PASSWORD")
	}

	return dash.Login(ctx, config.BankUsername, config.BankPassword)
}

// watch refreshes until interrupted or until the session ends.
func watch(ctx context.Context, dash *dashboard.Dashboard, gate *sessiongate.Gate, interval time.Duration) error {
	ctx, cancel := gate.Context(ctx)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	printSummary(os.Stdout, dash.Summary())

	for {
		select {
		case <-ctx.Done():
			if cause := context.Cause(ctx); !errors.Is(cause, context.Canceled) {
				return cause
			}

			return nil
		case <-ticker.C:
			if err := dash.Refresh(ctx); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Send()
			}

			printSummary(os.Stdout, dash.Summary())
		}
	}
}

func printSummary(w io.Writer, s dashboard.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "Accounts:\t%d\n", s.AccountCount)

	if s.HasSelection {
		fmt.Fprintf(tw, "Account:\t%s\n", s.Selected.Number)
	}

	fmt.Fprintf(tw, "Balance:\t%s\n", s.Balance.StringFixed(2))

	if s.Stale {
		fmt.Fprintf(tw, "Cached at:\t%s\n", s.RefreshedAt.Format(time.DateTime))
	}

	if len(s.Recent) == 0 {
		fmt.Fprintln(tw, "No recent transactions")
		return
	}

	fmt.Fprintln(tw, "Recent:")

	for _, r := range s.Recent {
		fmt.Fprintf(tw, "\t%s\t%s\t%s\n", r.When, r.Type, r.Amount)
	}
}

func printHistory(w io.Writer, rows []ledgerview.Row) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.When, r.Type, r.Amount, r.ID)
	}
}
