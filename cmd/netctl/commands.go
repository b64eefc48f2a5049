package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanshika/netintel/internal/app"
	"github.com/vanshika/netintel/internal/config"
	"github.com/vanshika/netintel/internal/logging"
	"github.com/vanshika/netintel/internal/service"
)

type globalFlags struct {
	configPath string
	backend    string
	datasetDir string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "netctl",
		Short:         "Query the relationship graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", os.Getenv("CONFIG_FILE"), "config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "store backend: memory, neo4j or postgres")
	cmd.PersistentFlags().StringVar(&flags.datasetDir, "dataset-dir", "", "dataset directory for the memory backend")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		pathsCmd(&flags),
		networkCmd(&flags),
		fitCmd(&flags),
		dashboardCmd(&flags),
	)
	return cmd
}

func pathsCmd(flags *globalFlags) *cobra.Command {
	var maxDegree int
	cmd := &cobra.Command{
		Use:   "paths SOURCE TARGET",
		Short: "Rank connection paths between two people",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := service.PathQuery{SourceID: args[0], TargetID: args[1]}
			if cmd.Flags().Changed("max-degree") {
				q.MaxDegree = &maxDegree
			}
			return withService(cmd, flags, func(ctx context.Context, svc *service.IntelligenceService) (any, error) {
				return svc.FindPaths(ctx, q)
			})
		},
	}
	cmd.Flags().IntVar(&maxDegree, "max-degree", 0, "maximum path degree (default from config)")
	return cmd
}

func networkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "network PERSON",
		Short: "Analyse a person's network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, flags, func(ctx context.Context, svc *service.IntelligenceService) (any, error) {
				return svc.AnalyzeNetwork(ctx, args[0])
			})
		},
	}
}

func fitCmd(flags *globalFlags) *cobra.Command {
	var (
		personID     string
		capabilities []string
	)
	cmd := &cobra.Command{
		Use:   "fit OPPORTUNITY",
		Short: "Score capabilities and proximity against an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := service.FitQuery{OpportunityID: args[0], PersonID: personID, Capabilities: capabilities}
			return withService(cmd, flags, func(ctx context.Context, svc *service.IntelligenceService) (any, error) {
				return svc.EvaluateFit(ctx, q)
			})
		},
	}
	cmd.Flags().StringVar(&personID, "person", "", "candidate person ID")
	cmd.Flags().StringSliceVar(&capabilities, "capability", nil, "capability offered (repeatable or comma separated)")
	return cmd
}

func dashboardCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard PERSON",
		Short: "Show the composite dashboard for a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, flags, func(ctx context.Context, svc *service.IntelligenceService) (any, error) {
				return svc.GetDashboard(ctx, args[0])
			})
		},
	}
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.LoadFile(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flags.backend != "" {
		cfg.Store.Backend = flags.backend
	}
	if flags.datasetDir != "" {
		cfg.Store.DatasetDir = flags.datasetDir
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	return cfg, cfg.Validate()
}

// withService opens the backend, runs one query and prints the result.
// Logs go to stderr so stdout stays valid JSON.
func withService(cmd *cobra.Command, flags *globalFlags, run func(context.Context, *service.IntelligenceService) (any, error)) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewWithWriter(cfg.Logging, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	backend, err := app.Open(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer backend.Close(context.Background())

	result, err := run(ctx, app.NewService(cfg, backend, logger, nil))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
