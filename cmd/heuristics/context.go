package main

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/inercia/go-llm-heuristics/pkg/factory"
	"github.com/inercia/go-llm-heuristics/pkg/gateway"
	"github.com/inercia/go-llm-heuristics/pkg/llm"
)

type commandContext struct {
	configFlag *string
	modelFlag  *string
	verbose    *bool

	configOnce sync.Once
	config     llm.ClientConfig
	configErr  error

	clientOnce sync.Once
	client     llm.Client
	clientErr  error

	logger *zap.Logger
}

func newCommandContext(configFlag, modelFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		modelFlag:  modelFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (llm.ClientConfig, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := llm.LoadConfig(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if c.modelFlag != nil && strings.TrimSpace(*c.modelFlag) != "" {
			cfg.Model = strings.TrimSpace(*c.modelFlag)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}

	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if c.verbose != nil && *c.verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	c.logger = logger
	return logger
}

func (c *commandContext) ensureClient() (llm.Client, error) {
	c.clientOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.clientErr = err
			return
		}
		logger := c.ensureLogger()
		logger.Debug("using backend", zap.String("config", cfg.Describe()))

		client, err := factory.New(factory.WithLogger(logger)).CreateClient(cfg)
		if err != nil {
			c.clientErr = fmt.Errorf("create client: %w", err)
			return
		}
		c.client = client
	})
	return c.client, c.clientErr
}

func (c *commandContext) gateway() (*gateway.Gateway, error) {
	client, err := c.ensureClient()
	if err != nil {
		return nil, err
	}
	return gateway.New(client,
		gateway.WithLogger(c.ensureLogger()),
		gateway.WithDefaultModel(c.config.Model)), nil
}

func (c *commandContext) close() error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
