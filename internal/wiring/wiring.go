// Package wiring constructs the production object graph of the CLI.
package wiring

import (
	"go.trai.ch/ninjagen/internal/adapters/fs"
	"go.trai.ch/ninjagen/internal/adapters/logger"
	"go.trai.ch/ninjagen/internal/app"
)

// Components are the long-lived pieces the CLI needs.
type Components struct {
	App    *app.App
	Logger *logger.Logger
}

// Build assembles the production components.
func Build() *Components {
	log := logger.New()
	return &Components{
		App:    app.New(log, fs.NewWriter()),
		Logger: log,
	}
}
