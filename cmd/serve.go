package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/hongduc/quiz11/internal/api"
	"github.com/hongduc/quiz11/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd.Context(), cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			d.cfg.HTTP.Address = addr
		}
		if d.cfg.Env != logging.EnvLocal {
			gin.SetMode(gin.ReleaseMode)
		}

		h := api.NewHandler(d.logger, d.service, d.catalog)
		router := api.NewRouter(d.logger, h, d.cfg.HTTP.AllowOrigins)
		srv := api.NewServer(d.cfg.HTTP.Address, d.cfg.HTTP.Timeout, d.cfg.HTTP.IdleTimeout, router)

		d.logger.Info("starting http server", slog.String("address", d.cfg.HTTP.Address))
		srv.Start()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

		select {
		case s := <-interrupt:
			d.logger.Info("shutting down", slog.String("signal", s.String()))
		case err := <-srv.Notify():
			if err != nil {
				d.logger.Error("http server stopped", logging.Err(err))
				return fmt.Errorf("http server: %w", err)
			}
		}

		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides QUIZ11_HTTP_ADDRESS)")
}
