// Package osinfo identifies the host operating system so prompts can ask for
// commands that work on it.
package osinfo

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/kcaldas/star-shell/pkg/shell"
)

const (
	FamilyLinux   = "Linux"
	FamilyMacOS   = "MacOS"
	FamilyWindows = "Windows"

	probeTimeout = 5 * time.Second
)

var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// ErrUnknownRelease is returned when the OS family is known but no release
// details could be read.
var ErrUnknownRelease = errors.New("os release details unavailable")

// Info describes the host OS.
type Info struct {
	Family   string
	FullName string
}

// Detector gathers OS details. Zero values for its fields use the real host.
type Detector struct {
	GOOS     string
	ReadFile func(name string) ([]byte, error)
	Runner   shell.Runner
}

// NewDetector returns a detector for the running host.
func NewDetector() *Detector {
	return &Detector{
		GOOS:     runtime.GOOS,
		ReadFile: os.ReadFile,
		Runner:   &shell.RealRunner{},
	}
}

// GetOSInfo returns the OS family and a full OS name. It never fails: when
// details are unavailable the full name is the family.
func GetOSInfo() (family, fullName string) {
	info, err := NewDetector().Detect(context.Background())
	if err != nil || info.FullName == "" {
		return info.Family, info.Family
	}
	return info.Family, info.FullName
}

// Family maps a GOOS value to the family name used in prompts.
func Family(goos string) string {
	switch goos {
	case "linux":
		return FamilyLinux
	case "darwin":
		return FamilyMacOS
	case "windows":
		return FamilyWindows
	default:
		return goos
	}
}

// Detect returns the family and, when it can be determined, the full name.
// The family is always set, even when an error is returned.
func (d *Detector) Detect(ctx context.Context) (Info, error) {
	goos := d.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	info := Info{Family: Family(goos)}

	var (
		fullName string
		err      error
	)
	switch goos {
	case "linux":
		fullName, err = d.linuxName()
	case "darwin":
		fullName, err = d.macName(ctx)
	case "windows":
		fullName, err = d.windowsName(ctx)
	default:
		return info, nil
	}
	if err != nil {
		return info, err
	}

	info.FullName = fullName
	return info, nil
}

func (d *Detector) readFile(name string) ([]byte, error) {
	if d.ReadFile != nil {
		return d.ReadFile(name)
	}
	return os.ReadFile(name)
}

func (d *Detector) runner() shell.Runner {
	if d.Runner != nil {
		return d.Runner
	}
	return &shell.RealRunner{}
}

func (d *Detector) linuxName() (string, error) {
	for _, path := range osReleasePaths {
		data, err := d.readFile(path)
		if err != nil {
			continue
		}
		if name := releaseName(ParseOSRelease(data)); name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: no usable os-release file", ErrUnknownRelease)
}

func releaseName(fields map[string]string) string {
	if pretty := fields["PRETTY_NAME"]; pretty != "" {
		return pretty
	}
	return strings.TrimSpace(fields["NAME"] + " " + fields["VERSION"])
}

func (d *Detector) macName(ctx context.Context) (string, error) {
	out, err := d.probe(ctx, "sw_vers", "-productVersion")
	if err != nil {
		return "", err
	}
	return "macOS-" + out, nil
}

func (d *Detector) windowsName(ctx context.Context) (string, error) {
	return d.probe(ctx, "cmd", "/c", "ver")
}

func (d *Detector) probe(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := d.runner().Run(ctx, name, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnknownRelease, name, err)
	}
	value := strings.TrimSpace(out.Stdout)
	if value == "" {
		return "", fmt.Errorf("%w: %s printed nothing", ErrUnknownRelease, name)
	}
	return value, nil
}

// ParseOSRelease parses the KEY=value format of os-release(5).
func ParseOSRelease(data []byte) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	return fields
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}
