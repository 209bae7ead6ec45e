package main

import (
	"fmt"

	"github.com/abelbrown/medview/internal/config"
)

// loadConfig reads the dashboard's config so both binaries share paths
// and backend settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
