package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/signet-protocol/signet-node/api"
	"github.com/signet-protocol/signet-node/config"
	"github.com/signet-protocol/signet-node/core"
	"github.com/signet-protocol/signet-node/db"
	"github.com/signet-protocol/signet-node/logger"
)

// Build information, set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "unknown"
)

const defaultHomeDirName = ".signetd"

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("home", "", "node home directory (default: ~/.signetd)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(versionCmd())
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config and bootstrap the escrow state",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := resolveHome(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.Default()
			if err != nil {
				return err
			}
			cfg.NodeHome = home

			if v, _ := cmd.Flags().GetString("admin"); v != "" {
				cfg.AdminAddress = v
			}
			if v, _ := cmd.Flags().GetString("network-id"); v != "" {
				cfg.NetworkID = v
			}
			if v, _ := cmd.Flags().GetString("root-key"); v != "" {
				cfg.RootPublicKey = v
			}
			if v, _ := cmd.Flags().GetUint64("deposit"); v != 0 {
				cfg.InitialDeposit = v
			}

			if err := config.Save(&cfg, home); err != nil {
				return err
			}

			log := logger.New(cfg)

			database, err := db.OpenFileDB(home, cfg.DatabaseFile, true)
			if err != nil {
				return err
			}
			defer database.Close()

			node, err := core.NewNode(cfg, database, log)
			if err != nil {
				return err
			}
			if cfg.AdminAddress == "" {
				log.Warn().Msg("no admin configured; set admin_address and run init again to bootstrap")
				return nil
			}
			return node.Bootstrap()
		},
	}

	cmd.Flags().String("admin", "", "base58 admin identity")
	cmd.Flags().String("network-id", "", "chain identifier of this escrow instance")
	cmd.Flags().String("root-key", "", "hex secp256k1 root public key of the signer network")
	cmd.Flags().Uint64("deposit", 0, "initial required deposit")
	return cmd
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the signet escrow node",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := resolveHome(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.Load(home)
			if err != nil {
				return fmt.Errorf("failed to load config (run `signetd init` first): %w", err)
			}

			log := logger.New(cfg)
			log.Info().Str("home", home).Msg("starting signetd")

			database, err := db.OpenFileDB(home, cfg.DatabaseFile, true)
			if err != nil {
				return err
			}
			defer database.Close()

			node, err := core.NewNode(cfg, database, log)
			if err != nil {
				return err
			}
			if err := node.Bootstrap(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			cleaner := db.NewEventCleaner(
				database,
				time.Duration(cfg.EventCleanupIntervalSeconds)*time.Second,
				time.Duration(cfg.EventRetentionPeriodSeconds)*time.Second,
				log,
			)
			if err := cleaner.Start(ctx); err != nil {
				return err
			}
			defer cleaner.Stop()

			server := api.NewServer(node, log, cfg.QueryServerPort)
			if err := server.Start(); err != nil {
				return err
			}
			defer server.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-sigCh:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
			case <-ctx.Done():
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print signetd version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version: %s\n", Version)
			fmt.Printf("Commit:  %s\n", Commit)
		},
	}
}

func resolveHome(cmd *cobra.Command) (string, error) {
	home, _ := cmd.Flags().GetString("home")
	if home != "" {
		return home, nil
	}
	if env := os.Getenv("SIGNETD_HOME"); env != "" {
		return env, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(userHome, defaultHomeDirName), nil
}
