//go:build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/kcaldas/star-shell/pkg/backend"
	"github.com/kcaldas/star-shell/pkg/config"
)

// BackendSet provides the configuration and the backend factory.
var BackendSet = wire.NewSet(
	config.NewConfigManager,
	backend.New,
)

// InitializeGenie builds the Genie for the named backend. An empty name
// selects the configured default.
func InitializeGenie(name string) (backend.Genie, error) {
	wire.Build(BackendSet)
	return nil, nil
}
