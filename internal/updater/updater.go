package updater

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/guiyumin/vdl/internal/core/version"
)

const (
	repoOwner = "guiyumin"
	repoName  = "vdl"
)

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, err
	}
	return selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
	})
}

// currentVersion returns the running version without a leading "v".
func currentVersion() string {
	return strings.TrimPrefix(version.Version, "v")
}

// latest returns the newest release and whether it is newer than the running binary.
func latest(ctx context.Context, up *selfupdate.Updater) (*selfupdate.Release, bool, error) {
	release, found, err := up.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, false, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, false, fmt.Errorf("no releases found for %s/%s", repoOwner, repoName)
	}
	if currentVersion() == "dev" {
		return release, true, nil
	}
	return release, !release.LessOrEqual(currentVersion()), nil
}

// Check reports whether a newer release is available.
func Check(ctx context.Context, w io.Writer) error {
	up, err := newUpdater()
	if err != nil {
		return err
	}

	release, newer, err := latest(ctx, up)
	if err != nil {
		return err
	}
	if !newer {
		fmt.Fprintf(w, "Already up to date (v%s)\n", currentVersion())
		return nil
	}
	fmt.Fprintf(w, "New version available: %s (current v%s)\n", release.Version(), currentVersion())
	return nil
}

// Update replaces the running executable with the latest release.
func Update(ctx context.Context, w io.Writer) error {
	up, err := newUpdater()
	if err != nil {
		return err
	}

	release, newer, err := latest(ctx, up)
	if err != nil {
		return err
	}
	if !newer {
		fmt.Fprintf(w, "Already up to date (v%s)\n", currentVersion())
		return nil
	}

	fmt.Fprintf(w, "Updating from v%s to %s...\n", currentVersion(), release.Version())

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := up.UpdateTo(ctx, release, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Fprintf(w, "Successfully updated to %s\n", release.Version())
	return nil
}
