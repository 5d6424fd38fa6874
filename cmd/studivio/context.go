package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"studivio/internal/config"
	"studivio/internal/extract"
	"studivio/internal/ingest"
	"studivio/internal/logging"
	"studivio/internal/services/llm"
	"studivio/internal/services/youtube"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// cliLogger writes warnings and errors to stderr so command output on stdout
// stays clean.
func (c *commandContext) cliLogger() *slog.Logger {
	format := "console"
	if c.config != nil && c.config.Logging.Format != "" {
		format = c.config.Logging.Format
	}
	logger, err := logging.New(logging.Options{Level: "warn", Format: format, OutputPaths: []string{"stderr"}})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// localPipeline builds a pipeline for summarising without persistence.
func (c *commandContext) localPipeline() (*ingest.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.cliLogger()
	return &ingest.Pipeline{
		Extractor:   extract.New(extract.LimitsFrom(cfg), logger),
		Summariser:  llm.NewClient(llm.ConfigFrom(cfg.GetLLM())),
		Transcripts: youtube.NewClient(cfg.YouTube),
		TempDir:     cfg.Paths.TempDir,
		Logger:      logger,
	}, nil
}

// userFacing trims ingestion failures down to their client message.
func userFacing(err error) error {
	if failure, ok := ingest.AsFailure(err); ok {
		return errors.New(failure.Message)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
