package commands

import (
	"fmt"
	"io"
	"os"

	"lu-estilo/internal/config"
	"lu-estilo/internal/database"
	"lu-estilo/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openDatabase connects using the environment configuration. Tests replace it.
var openDatabase = func() (database.Service, error) {
	return database.New(config.Load().Database)
}

// newLogger builds the command logger. Tests replace it.
var newLogger = func() *zap.Logger {
	return logger.NewWithDefaults()
}

// NewRootCmd assembles the salesctl command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "salesctl",
		Short: "Administration tool for the Lu Estilo API",
		Long: `salesctl manages the Lu Estilo database outside the HTTP API.

Connection settings come from the same DB_* environment variables
(or .env file) the API server reads.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newMigrateCmd(), newCreateAdminCmd())
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func closeQuietly(c io.Closer, log *zap.Logger) {
	if err := c.Close(); err != nil {
		log.Warn("Failed to close database connection", zap.Error(err))
	}
}
