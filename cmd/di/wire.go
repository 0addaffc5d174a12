//go:build wireinject

package di

import (
	"io"

	"github.com/google/wire"
	"github.com/kcaldas/star-shell/internal/smoke"
)

// SmokeSet wires the compiled-in surface into the smoke runner.
var SmokeSet = wire.NewSet(
	ProvideSurface,
	ProvideResolver,
	ProvideShellRunner,
	ProvideLogger,
	smoke.DefaultChecks,
	ProvideSmokeRunner,
)

// InitializeSmokeRunner builds a smoke runner printing to out.
func InitializeSmokeRunner(out io.Writer) *smoke.Runner {
	wire.Build(SmokeSet)
	return nil
}
