//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/shashe9/teaminfinity/pkg/config"
	"github.com/shashe9/teaminfinity/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideStore,
		ProvideCache,

		// Use cases
		ProvideDataset,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
