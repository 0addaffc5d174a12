package di

import (
	"io"

	"github.com/kcaldas/star-shell/cmd/cli"
	"github.com/kcaldas/star-shell/internal/smoke"
	"github.com/kcaldas/star-shell/pkg/backend"
	"github.com/kcaldas/star-shell/pkg/logging"
	"github.com/kcaldas/star-shell/pkg/osinfo"
	"github.com/kcaldas/star-shell/pkg/shell"
	"github.com/kcaldas/star-shell/pkg/version"
)

const smokeLogFile = "star-shell-smoketest.log"

// packageSurface is the star-shell surface as compiled into this binary.
type packageSurface struct{}

func (packageSurface) Version() string          { return version.GetVersion() }
func (packageSurface) App() any                 { return cli.NewRootCommand() }
func (packageSurface) Backends() []string       { return backend.Implementations() }
func (packageSurface) OSInfo() smoke.OSInfoFunc { return osinfo.GetOSInfo }

// ProvideSurface provides the compiled-in package surface.
func ProvideSurface() smoke.Surface {
	return packageSurface{}
}

// ProvideResolver resolves to s.
func ProvideResolver(s smoke.Surface) smoke.Resolver {
	return func() (smoke.Surface, error) { return s, nil }
}

// ProvideShellRunner provides the runner used for subprocess checks.
func ProvideShellRunner() shell.Runner {
	return &shell.RealRunner{}
}

// ProvideLogger logs to STAR_SHELL_DEBUG_FILE so the transcript stays clean.
func ProvideLogger() logging.Logger {
	return logging.NewFileLoggerFromEnv(smokeLogFile)
}

// ProvideSmokeRunner builds the runner over checks.
func ProvideSmokeRunner(out io.Writer, logger logging.Logger, checks []smoke.Check) *smoke.Runner {
	return smoke.NewRunner(out, logger, checks...)
}
