//go:build wireinject
// +build wireinject

package di

import (
	"NYCalc/pkg/config"
	"NYCalc/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The cleanup func closes clients in reverse construction order.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(InfraSet, AppSet)
	return nil, nil, nil
}
