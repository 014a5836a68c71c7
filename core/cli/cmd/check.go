package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/nwslgate/nwslgate/core/backend"
	"github.com/nwslgate/nwslgate/core/config"
	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
)

// checkCmd validates configuration and probes the analytics backend
var checkCmd = &cobra.Command{
	Use:           "check",
	Short:         "Validate configuration and backend connectivity",
	RunE:          runCheck,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&envDir, "env-dir", "", "Directory to load .env files from")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.New("check")

	LoadEnvFiles(envDir)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Successf("Configuration is valid")

	if cfg.PanelAdminToken == "" {
		log.Warnf("Admin token not set, panel mutations will be rejected")
	}
	if !cfg.VizConfigured() {
		log.Infof("Visualization service not configured")
	}
	if !cfg.WarehouseConfigured() {
		log.Infof("Warehouse access not configured")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	client := backend.NewClient(cfg.APIBaseURL, cfg.APIKey)
	if _, err := client.Health(ctx); err != nil {
		log.Errorf("Backend health check failed: %v", err)
		return err
	}
	log.Successf("Backend is reachable at %s", cfg.APIBaseURL)

	return nil
}
