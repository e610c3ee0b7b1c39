package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/agora/internal/config"
)

const version = "0.3.0"

// newRootCmd creates the root command.
func newRootCmd() *cobra.Command {
	var cfgPath string
	cfg := config.Default()

	rootCmd := &cobra.Command{
		Use:           "agora",
		Short:         "agora - spatial market of producer/consumer agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadUnchecked(cfgPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			setupLogging(cfg)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Configuration file path (YAML)")

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// newRunCmd creates the run command.
func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		Long: `Run the agora day by day: every agent opens its store, then shops.
Needs reset at the end of each week. State is saved to SQLite and served over HTTP
when enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("days") {
				cfg.Days, _ = flags.GetInt("days")
			}
			if flags.Changed("seed") {
				cfg.Seed, _ = flags.GetInt64("seed")
			}
			if flags.Changed("db") {
				cfg.Storage.DBPath, _ = flags.GetString("db")
			}
			if flags.Changed("port") {
				cfg.API.Port, _ = flags.GetInt("port")
			}
			if flags.Changed("strict") {
				cfg.Agent.Strict, _ = flags.GetBool("strict")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().Int("days", 0, "Number of days to simulate (0 runs until interrupted)")
	cmd.Flags().Int64("seed", 0, "Population seed (0 draws one)")
	cmd.Flags().String("db", "", "SQLite database path (empty disables persistence)")
	cmd.Flags().Int("port", 0, "HTTP API port (0 disables the API)")
	cmd.Flags().Bool("strict", false, "Report incoherent agents as errors")
	return cmd
}

// newConfigCmd creates the config command.
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration ok")
			return nil
		},
	})

	return configCmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agora v%s\n", version)
		},
	}
}

func setupLogging(cfg *config.Config) {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
