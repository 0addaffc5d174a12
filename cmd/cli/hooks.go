package cli

import (
	"github.com/atotto/clipboard"
	"github.com/kcaldas/star-shell/internal/di"
	"github.com/kcaldas/star-shell/pkg/backend"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/kcaldas/star-shell/pkg/history"
)

// Collaborators of the commands, replaced in tests.
var (
	newGenie         = di.InitializeGenie
	newConfigManager = config.NewConfigManager
	openHistory      = history.NewDefaultStore
	copyToClipboard  = clipboard.WriteAll
	userShell        = func() string { return backend.ShellFor(newConfigManager()) }
)
