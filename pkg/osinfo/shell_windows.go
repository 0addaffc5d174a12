//go:build windows

package osinfo

// Shell returns "cmd" on Windows.
func Shell() string {
	return "cmd"
}
