package smoke

import (
	"context"
	"fmt"
	"io"
)

// OSInfoCheck passes when the OS info utility returns without faulting.
type OSInfoCheck struct {
	Resolve Resolver
}

func (c *OSInfoCheck) Name() string { return "os info" }

func (c *OSInfoCheck) Run(_ context.Context, w io.Writer) (passed bool) {
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(w, "❌ OS info test failed: %v\n", p)
			passed = false
		}
	}()

	surface, err := resolve(c.Resolve)
	if err == nil && (surface == nil || surface.OSInfo() == nil) {
		err = fmt.Errorf("%w OS info utility", ErrUnresolved)
	}
	if err != nil {
		fmt.Fprintf(w, "❌ OS info test failed: %v\n", err)
		return false
	}

	family, fullName := surface.OSInfo()()
	fmt.Fprintf(w, "✅ OS detection works: %s - %s\n", family, fullName)
	return true
}
