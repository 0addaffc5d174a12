package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/kcaldas/star-shell/pkg/backend"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/spf13/cobra"
)

type initValues struct {
	Backend string
	APIKey  string
	Model   string
}

// promptInit fills in missing init values interactively. Replaced in tests.
var promptInit = defaultPromptInit

func newInitCommand() *cobra.Command {
	var values initValues

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Choose a backend and store its API key",
		Long: `Write ~/.star-shell/config.yaml with the chosen backend and model, and
store the backend's API key in ~/.star-shell/.env (readable by you only).

Values not given as flags are asked for when running on a terminal.`,
		Example: `  star-shell init
  star-shell init --backend anthropic --api-key sk-ant-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, values)
		},
	}

	cmd.Flags().StringVar(&values.Backend, "backend", "", "backend to use ("+strings.Join(backend.Names(), ", ")+")")
	cmd.Flags().StringVar(&values.APIKey, "api-key", "", "API key for the backend")
	cmd.Flags().StringVar(&values.Model, "model", "", "model name (backend default when empty)")

	return cmd
}

func runInit(cmd *cobra.Command, values initValues) error {
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()

	if (values.Backend == "" || values.APIKey == "") && isTerminal(in) {
		filled, err := promptInit(in, out, values)
		if err != nil {
			return err
		}
		values = filled
	}

	if values.Backend == "" {
		values.Backend = config.DefaultBackend
	}
	name := backend.ResolveName(values.Backend, newConfigManager())
	if !knownBackend(name) {
		return fmt.Errorf("%w %q (available: %s)", backend.ErrUnknownBackend, values.Backend, strings.Join(backend.Names(), ", "))
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}

	settingsPath := config.SettingsPath(dir)
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	settings.Backend = name
	if values.Model != "" {
		settings.Model = values.Model
	}
	if err := config.SaveSettings(settingsPath, settings); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s (backend: %s)\n", settingsPath, name)

	if key := strings.TrimSpace(values.APIKey); key != "" {
		envKey := backend.APIKeyEnv(name)
		if err := config.SaveEnvValue(dir, envKey, key); err != nil {
			return err
		}
		fmt.Fprintf(out, "Stored %s in %s\n", envKey, config.EnvPath(dir))
	} else {
		fmt.Fprintf(out, "No API key given; export %s or re-run init with --api-key.\n", backend.APIKeyEnv(name))
	}
	return nil
}

func knownBackend(name string) bool {
	for _, n := range backend.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func defaultPromptInit(in io.Reader, out io.Writer, values initValues) (initValues, error) {
	var fields []huh.Field
	if values.Backend == "" {
		options := make([]huh.Option[string], 0, len(backend.Names()))
		for _, name := range backend.Names() {
			options = append(options, huh.NewOption(name, name))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Backend").
			Options(options...).
			Value(&values.Backend))
	}
	if values.APIKey == "" {
		fields = append(fields, huh.NewInput().
			Title("API key").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("API key is required")
				}
				return nil
			}).
			Value(&values.APIKey))
	}
	if len(fields) == 0 {
		return values, nil
	}

	err := huh.NewForm(huh.NewGroup(fields...)).WithInput(in).WithOutput(out).Run()
	if err != nil {
		return values, fmt.Errorf("reading init values: %w", err)
	}
	return values, nil
}
