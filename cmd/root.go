package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pg2sqlite/pg2sqlite/internal/logger"
	"github.com/pg2sqlite/pg2sqlite/internal/version"
)

var debug bool

var RootCmd = &cobra.Command{
	Use:   "pg2sqlite",
	Short: "Convert PostgreSQL 16 DDL to SQLite3 DDL",
	Long: fmt.Sprintf(`pg2sqlite is an offline schema transpiler: it reads PostgreSQL DDL and
emits equivalent SQLite DDL, reporting every lossy mapping as a warning.

Version: %s@%s %s %s

Use "pg2sqlite [command] --help" for more information about a command.`,
		version.Version(), version.GetGitCommit(), version.Platform(), version.GetBuildDate()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(ConvertCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger.SetGlobal(slog.New(handler), debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
