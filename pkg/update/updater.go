// Package update implements `star-shell update` on top of GitHub releases.
package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/kcaldas/star-shell/pkg/version"
)

const (
	// GitHub repository for releases
	GitHubOwner = "kcaldas"
	GitHubRepo  = "star-shell"

	DefaultTimeout = 2 * time.Minute
)

var errNoReleases = errors.New("no releases found")

// UpdateInfo contains information about an available update
type UpdateInfo struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseNotes   string
	DownloadURL    string
	UpdateNeeded   bool
}

type releaseUpdater interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
	UpdateTo(ctx context.Context, rel *selfupdate.Release, cmdPath string) error
}

// Updater handles self-updating logic
type Updater struct {
	updater        releaseUpdater
	repository     selfupdate.Repository
	currentVersion func() string
	executablePath func() (string, error)
}

// NewUpdater creates a new updater instance
func NewUpdater() (*Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	// Releases ship a checksums.txt next to the archives.
	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:    source,
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		updater:        updater,
		repository:     selfupdate.NewRepositorySlug(GitHubOwner, GitHubRepo),
		currentVersion: version.GetVersion,
		executablePath: selfupdate.ExecutablePath,
	}, nil
}

func (u *Updater) detectLatest(ctx context.Context) (*selfupdate.Release, error) {
	latest, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil {
		return nil, fmt.Errorf("failed to detect latest version: %w", err)
	}
	if !found || latest == nil {
		return nil, errNoReleases
	}
	return latest, nil
}

// CheckForUpdates checks if there's a newer version available
func (u *Updater) CheckForUpdates(ctx context.Context) (*UpdateInfo, error) {
	latest, err := u.detectLatest(ctx)
	if err != nil {
		return nil, err
	}
	return u.updateInfo(latest)
}

func (u *Updater) updateInfo(latest *selfupdate.Release) (*UpdateInfo, error) {
	currentVersion := u.currentVersion()
	needed, err := NeedsUpdate(currentVersion, latest.Version())
	if err != nil {
		return nil, err
	}
	return &UpdateInfo{
		CurrentVersion: currentVersion,
		LatestVersion:  latest.Version(),
		ReleaseNotes:   latest.ReleaseNotes,
		DownloadURL:    latest.AssetURL,
		UpdateNeeded:   needed,
	}, nil
}

// NeedsUpdate compares versions with semver. Development builds and
// versions that are not valid semver always need an update.
func NeedsUpdate(currentVersion, latestVersion string) (bool, error) {
	switch currentVersion {
	case "", "dev", "development":
		return true, nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return true, nil
	}
	latestSemver, err := semver.NewVersion(latestVersion)
	if err != nil {
		return false, fmt.Errorf("invalid latest version %s: %w", latestVersion, err)
	}
	return latestSemver.GreaterThan(current), nil
}

// Update installs the latest release over the running executable. Without
// force nothing happens when the running version is already current.
func (u *Updater) Update(ctx context.Context, force bool) (*UpdateInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	latest, err := u.detectLatest(ctx)
	if err != nil {
		return nil, err
	}
	info, err := u.updateInfo(latest)
	if err != nil {
		return nil, err
	}
	if !info.UpdateNeeded && !force {
		return info, nil
	}

	exe, err := u.executablePath()
	if err != nil {
		return info, fmt.Errorf("could not locate executable path: %w", err)
	}
	if err := u.updater.UpdateTo(ctx, latest, exe); err != nil {
		return info, fmt.Errorf("update failed: %w", err)
	}
	return info, nil
}
