package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrUnresolved reports a part of the package surface that is not present.
var ErrUnresolved = errors.New("cannot resolve")

// RequiredBackends are the backend implementations the surface must expose.
var RequiredBackends = []string{"OpenAIGenie", "GeminiGenie"}

// OSInfoFunc returns the OS family and full name.
type OSInfoFunc func() (family, fullName string)

// Surface is the public surface of the star-shell package.
type Surface interface {
	Version() string
	// App returns the CLI entry object, nil when absent.
	App() any
	// Backends lists the exported backend implementation names.
	Backends() []string
	// OSInfo returns the OS identification utility, nil when absent.
	OSInfo() OSInfoFunc
}

// Resolver locates the package surface.
type Resolver func() (Surface, error)

// Verify checks that every part of s resolves and that the version is set.
func Verify(s Surface) error {
	if s == nil {
		return fmt.Errorf("%w package surface", ErrUnresolved)
	}
	if s.App() == nil {
		return fmt.Errorf("%w CLI entry point", ErrUnresolved)
	}

	have := make(map[string]bool, len(s.Backends()))
	for _, name := range s.Backends() {
		have[name] = true
	}
	for _, name := range RequiredBackends {
		if !have[name] {
			return fmt.Errorf("%w backend %s", ErrUnresolved, name)
		}
	}

	if s.OSInfo() == nil {
		return fmt.Errorf("%w OS info utility", ErrUnresolved)
	}
	if s.Version() == "" {
		return errors.New("package version is empty")
	}
	return nil
}

// ImportCheck passes when the package surface resolves completely.
type ImportCheck struct {
	Resolve Resolver
}

func (c *ImportCheck) Name() string { return "import" }

func (c *ImportCheck) Run(_ context.Context, w io.Writer) bool {
	surface, err := resolve(c.Resolve)
	if err == nil {
		err = Verify(surface)
	}
	if err != nil {
		fmt.Fprintf(w, "❌ Import error: %v\n", err)
		return false
	}

	fmt.Fprintln(w, "✅ All imports successful!")
	fmt.Fprintf(w, "📦 Package version: %s\n", surface.Version())
	return true
}

func resolve(r Resolver) (Surface, error) {
	if r == nil {
		return nil, fmt.Errorf("%w package surface", ErrUnresolved)
	}
	return r()
}
