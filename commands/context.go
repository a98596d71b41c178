package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/cppla/fotos/config"
	"github.com/cppla/fotos/transfer"
)

type commandContext struct {
	configFlag *string
	cfg        *config.AppConfig
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once per process. An explicit
// --config must exist; the default path may be absent.
func (c *commandContext) ensureConfig() (config.AppConfig, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	path := config.DefaultPath
	if c.configFlag != nil && *c.configFlag != "" {
		path = *c.configFlag
		if _, err := os.Stat(path); err != nil {
			return config.AppConfig{}, fmt.Errorf("config file: %w", err)
		}
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	config.Set(cfg)
	c.cfg = &cfg
	return cfg, nil
}

func (c *commandContext) configValue() config.AppConfig {
	cfg, err := c.ensureConfig()
	if err != nil {
		return config.Get()
	}
	return cfg
}

// readExport decodes an export file. Record level rejections are returned
// in the result, not as an error, unless nothing was usable.
func readExport(path string) (transfer.Result, error) {
	if path == "" {
		return transfer.Result{}, errors.New("--in is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return transfer.Result{}, err
	}
	defer f.Close()
	res, err := transfer.Import(f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
