package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "bookmood",
		Short: "Bookstore cart and mood tracker",
		Long: `bookmood serves a small book catalog with a persistent cart and
simulated checkout, next to a personal mood journal with a daily trend.

Configuration comes from the environment (STORAGE_BACKEND, REDIS_ADDR,
SQLITE_PATH, ...); flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.backend, "backend", "", "storage backend: memory, redis, sqlite, postgres, mongo")
	pf.StringVar(&flags.sqlitePath, "sqlite-path", "", "sqlite database file")
	pf.StringVar(&flags.redisAddr, "redis-addr", "", "redis address")
	pf.StringVar(&flags.logMode, "log-mode", "", "log mode: dev, prod or nop")

	rootCmd.AddCommand(
		serveCmd(&flags),
		cartCmd(&flags),
		moodCmd(&flags),
		versionCmd(),
	)
	return rootCmd
}
