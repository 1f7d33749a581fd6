// Package update checks GitHub releases for newer guildview builds and
// checks that a Guild View backend is recent enough to talk to.
package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	selfupdate "github.com/creativeprojects/go-selfupdate"
)

// Repo is the GitHub slug releases are published under.
const Repo = "justinpbarnett/guildview"

const (
	checkTimeout = 10 * time.Second
	applyTimeout = 2 * time.Minute
)

// ErrBackendTooOld is wrapped by CheckBackendVersion when the backend
// predates the minimum supported version.
var ErrBackendTooOld = errors.New("backend version too old")

// Release holds information about an available update.
type Release struct {
	Version      string
	URL          string
	ReleaseNotes string
}

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("create github source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return nil, fmt.Errorf("create updater: %w", err)
	}
	return updater, nil
}

// CheckForUpdate returns the latest release of repo when it is newer than
// currentVersion, or nil. Development builds never report an update.
func CheckForUpdate(ctx context.Context, currentVersion, repo string) (*Release, error) {
	if currentVersion == "dev" || currentVersion == "" {
		return nil, nil
	}

	current, err := parseSemver(currentVersion)
	if err != nil {
		return nil, nil // dirty or hand-built version string
	}

	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return nil, fmt.Errorf("detect latest release: %w", err)
	}
	if !found {
		return nil, nil
	}

	latestVer, err := semver.NewVersion(latest.Version())
	if err != nil || !latestVer.GreaterThan(current) {
		return nil, nil
	}

	return &Release{
		Version:      latest.Version(),
		URL:          latest.URL,
		ReleaseNotes: latest.ReleaseNotes,
	}, nil
}

// Apply replaces the running executable with the latest release of repo.
func Apply(ctx context.Context, currentVersion, repo string) (*Release, error) {
	if currentVersion == "dev" || currentVersion == "" {
		return nil, fmt.Errorf("cannot update a development build, install from a release first")
	}

	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	rel, err := updater.UpdateSelf(ctx, strings.TrimPrefix(currentVersion, "v"), selfupdate.ParseSlug(repo))
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}

	return &Release{
		Version:      rel.Version(),
		URL:          rel.URL,
		ReleaseNotes: rel.ReleaseNotes,
	}, nil
}

// CheckBackendVersion reports whether the backend's /config version meets
// minimum. An empty minimum disables the check. An unparseable or empty
// backend version is treated as unknown and passes, since development
// backends report arbitrary strings.
func CheckBackendVersion(backend, minimum string) error {
	if minimum == "" {
		return nil
	}
	minVer, err := parseSemver(minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum backend version %q: %w", minimum, err)
	}
	got, err := parseSemver(backend)
	if err != nil {
		return nil
	}
	if got.LessThan(minVer) {
		return fmt.Errorf("%w: %s < %s", ErrBackendTooOld, got, minVer)
	}
	return nil
}

// CompareVersions compares two semver strings.
// Returns -1 if current < latest, 0 if equal, 1 if current > latest.
// Unparseable versions are treated as less than any valid version.
func CompareVersions(current, latest string) int {
	cv, errC := parseSemver(current)
	lv, errL := parseSemver(latest)

	switch {
	case errC != nil && errL != nil:
		return 0
	case errC != nil:
		return -1
	case errL != nil:
		return 1
	}
	return cv.Compare(lv)
}

// parseSemver strips a leading "v". Guild's own dev versions look like
// "0.9.0.dev3"; the ".devN" suffix is rewritten to a prerelease.
func parseSemver(s string) (*semver.Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.Index(s, ".dev"); i > 0 {
		s = s[:i] + "-" + s[i+1:]
	}
	return semver.NewVersion(s)
}
