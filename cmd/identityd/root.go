package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "identityd",
	Short: "Bearer token identity service",
	Long: `identityd verifies Keycloak-issued bearer tokens against the realm's
key set and answers with the caller's claims.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(logLevel)
	},
}

// Execute runs the root command
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set the log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
}

func initLogger(level string) {
	if strings.ToLower(level) == "debug" {
		zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
		return
	}

	config := zap.NewProductionConfig()
	// remove the "caller" key from the log output
	config.EncoderConfig.CallerKey = zapcore.OmitKey
	if parsed, err := zapcore.ParseLevel(level); err == nil && level != "" {
		config.Level = zap.NewAtomicLevelAt(parsed)
	}
	zap.ReplaceGlobals(zap.Must(config.Build()))
}
