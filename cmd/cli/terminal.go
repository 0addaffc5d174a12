package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/jwalton/go-supportscolor"
)

// palette holds ANSI sequences for command output; all empty when colour is
// not supported.
type palette struct {
	command string
	muted   string
	reset   string
}

func newPalette(out io.Writer) palette {
	if out != os.Stdout || !supportscolor.Stdout().SupportsColor {
		return palette{}
	}
	return palette{
		command: "\033[1;36m",
		muted:   "\033[2m",
		reset:   "\033[0m",
	}
}

// promptConfirm is a test hook for replacing the confirmation prompt in tests.
// Takes reader, writer, and question string. Returns true for yes.
var promptConfirm = defaultPromptConfirm

func defaultPromptConfirm(in io.Reader, out io.Writer, question string) bool {
	if !isTerminal(in) {
		return false
	}

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Run").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithInput(in).WithOutput(out).Run()

	if err != nil {
		return false
	}
	return confirmed
}

// renderMarkdown renders text for the terminal. GLAMOUR_STYLE selects the style.
func renderMarkdown(text string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}
