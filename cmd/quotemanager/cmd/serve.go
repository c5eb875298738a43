package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bher20/quotemanager/internal/alerting"
	"github.com/bher20/quotemanager/internal/api"
	"github.com/bher20/quotemanager/internal/cron"
	"github.com/bher20/quotemanager/internal/logging"
	"github.com/bher20/quotemanager/internal/migrate"
	"github.com/bher20/quotemanager/internal/notification"
	"github.com/bher20/quotemanager/internal/session"
)

var serveAddr string

// serveCmd runs the HTTP API, the web UI and the background jobs
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default $QUOTEMANAGER_ADDR or :8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.Logger
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	if cfg.AutoMigrate && cfg.DBDriver != "memory" {
		migrate.SetLogger(log)
		if err := migrate.Up(ctx, cfg.DBDriver, cfg.DBDSN); err != nil {
			return err
		}
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	catalogs, err := catalogService(ctx, st)
	if err != nil {
		return err
	}

	notif := notification.NewService(st, notification.EnvConfig(cfg.SendgridAPIKey, cfg.MailFrom), logging.Named("notification"))
	sessions := session.NewManager(catalogs,
		session.WithTTL(cfg.SessionTTL),
		session.WithSink(st),
		session.WithNotifier(notif),
		session.WithLogger(logging.Named("session")),
	)

	worker := cron.NewWorker(cron.Config{
		Store:           st,
		Catalogs:        catalogs,
		Sessions:        sessions,
		Alerter:         alerting.NewAlerter(alerting.NewAlertConfig(cfg.AlertWebhookURL, "", 3), log),
		RefreshInterval: cfg.RefreshInterval,
		Logger:          log,
	})
	if err := worker.Start(ctx); err != nil {
		return err
	}
	defer worker.Stop()

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewMux(api.Deps{
			Catalogs:      catalogs,
			Sessions:      sessions,
			Store:         st,
			Notifications: notif,
			Logger:        log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("quotemanager listening",
			zap.String("addr", cfg.Addr),
			zap.String("db_driver", cfg.DBDriver),
			zap.Int("catalogs", len(catalogs.List())))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
