//go:build wireinject
// +build wireinject

package di

import (
	"github.com/seethefuture888888-creator/kangbo/pkg/config"
	"github.com/seethefuture888888-creator/kangbo/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideReference,
		ProvideFeedClient,
		ProvideSession,
		ProvideDashboardHandler,
		ProvideHub,
		ProvideApp,
	)
	return &server.App{}, nil
}
