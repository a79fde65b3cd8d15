package lib

import (
	"go.uber.org/zap"
)

// LogConfig selects level and encoding of the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
	Output string `yaml:"output"`
}

/*
	NewLogger builds a zap logger. Console output is the development
	config, anything else the production one.
*/
func NewLogger(config LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if config.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if config.Output != "" {
		zapConfig.OutputPaths = []string{config.Output}
	}

	return zapConfig.Build()
}
