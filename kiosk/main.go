package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"menugenius/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	// svc is built before every command runs and closed after Execute.
	svc *app
)

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "MenuGenius table kiosk",
	Long: `Browse the menu, build a basket, place and track orders, and run the
kitchen board from the command line.

Set offline_orders in the config file to keep orders on this machine instead
of sending them to the order service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadKioskConfig(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		logger, err := config.NewLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		svc, err = newApp(cfg, logger)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "kiosk.yaml", "Path to the kiosk config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(menuCmd, basketCmd, orderCmd, kitchenCmd, languageCmd)
}

func main() {
	config.LoadDotEnv(zap.NewNop())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if svc != nil {
		svc.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
