package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:   "applytrack-api",
	Short: "applytrack job application tracker API",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}

// initLogger replaces the global zap logger. The returned func restores it.
func initLogger(cfg *config.Config) (*zap.Logger, func()) {
	logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger := log.InitLog(logLvl)
	undo := zap.ReplaceGlobals(logger)
	return logger, undo
}
