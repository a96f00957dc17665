package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-booking-sync/bookingsource"
	"github.com/jrsteele09/go-booking-sync/contacts"
	"github.com/jrsteele09/go-booking-sync/crm"
	"github.com/jrsteele09/go-booking-sync/ingest"
	"github.com/jrsteele09/go-booking-sync/internal/config"
	"github.com/jrsteele09/go-booking-sync/internal/logging"
	"github.com/jrsteele09/go-booking-sync/ledger"
	"github.com/jrsteele09/go-booking-sync/ledger/memledger"
	"github.com/jrsteele09/go-booking-sync/server"
	"github.com/jrsteele09/go-booking-sync/token"
	"github.com/jrsteele09/go-booking-sync/token/badgerrepo"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	settings, err := config.Load()
	if err != nil {
		return err
	}
	c := config.New(settings)
	logSettings := c.GetLogging()
	logging.Init(logging.Config{Level: logSettings.Level, Format: logSettings.Format, Caller: logSettings.Caller})
	displayAppname(c.GetAppName())

	db, err := badgerrepo.Open(filepath.Join(c.GetDataFolder(), "credentials"))
	if err != nil {
		return err
	}
	defer db.Close()

	httpClient := &http.Client{Timeout: c.GetHTTPTimeout()}
	tokens := token.NewStore(badgerrepo.NewCredentialRepo(db), c, token.WithHTTPClient(httpClient))
	log.Info().Stringer("credential", tokens.State()).Msg("CRM credential loaded")

	crmClient := crm.NewClient(c.GetCrmAPIBaseURL(), httpClient, tokens)
	tags := c.GetCrmTags()
	reconciler := contacts.NewReconciler(crmClient, contacts.TagSet{New: tags.New, Repeat: tags.Repeat, Passenger: tags.Passenger})

	l, err := newLedger(c)
	if err != nil {
		return err
	}

	workflow, err := ingest.NewWorkflow(c, bookingsource.NewClient(c, httpClient), reconciler, l)
	if err != nil {
		return err
	}

	stateSigner := token.NewStateSigner(c.GetStateSecret(), c.GetStateTTL())
	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           server.New(c, workflow, tokens, stateSigner),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func newLedger(c config.Config) (ledger.Ledger, error) {
	if c.GetLedgerBackend() == "sheets" {
		sheets, err := ledger.NewSheets(context.Background(), c)
		if err != nil {
			return nil, err
		}
		return sheets, nil
	}
	log.Warn().Msg("Using the in-memory ledger; rows are lost on restart")
	return memledger.New(), nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
