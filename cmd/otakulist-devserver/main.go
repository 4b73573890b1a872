package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zfogg/otakulist/internal/devserver"
	"go.uber.org/zap"
)

var (
	addr  string
	dsn   string
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "otakulist-devserver",
	Short: "Local list server for developing against otakulist",
	Long: `otakulist-devserver serves the otakulist list API on top of sqlite
(default, in memory) or postgres. It seeds a demo user whose bearer
token is OTAKULIST_DEV_TOKEN (default "dev-token").

Settings come from the environment or a .env file:
  OTAKULIST_ADDR, OTAKULIST_DSN, OTAKULIST_LOG_FILE, OTAKULIST_LOG_LEVEL`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := devserver.LoadConfig()
		if cmd.Flags().Changed("addr") {
			cfg.Addr = addr
		}
		if cmd.Flags().Changed("dsn") {
			cfg.DSN = dsn
		}
		if debug {
			cfg.LogLevel = "debug"
		} else {
			gin.SetMode(gin.ReleaseMode)
		}

		log := devserver.NewLogger(cfg.LogLevel, cfg.LogFile)
		defer func() { _ = log.Sync() }()

		srv, err := devserver.New(cfg, log)
		if err != nil {
			log.Error("Failed to start", zap.Error(err))
			return err
		}
		defer srv.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			log.Error("Server stopped", zap.Error(err))
			return err
		}
		log.Info("Server exited")
		return nil
	},
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	rootCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides OTAKULIST_ADDR)")
	rootCmd.Flags().StringVar(&dsn, "dsn", "", "sqlite file or postgres:// URL (overrides OTAKULIST_DSN)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Debug logging and gin debug mode")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
