// Package appupdate checks for newer releases in the background and records
// the latest known version so the next run can mention it.
package appupdate

import (
	"context"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"go.uber.org/zap"

	"aicmd/internal/core"
)

// repoSlug is the GitHub repository releases are published to.
const repoSlug = "aicmd-sh/aicmd"

// Release is the subset of release metadata the check needs.
type Release interface {
	Version() string
}

// Updater detects the latest published release. The indirection keeps the
// check testable without network access.
type Updater interface {
	DetectLatest(ctx context.Context, repository string) (Release, bool, error)
}

// DefaultUpdater detects releases from GitHub.
type DefaultUpdater struct{}

func (DefaultUpdater) DetectLatest(ctx context.Context, repository string) (Release, bool, error) {
	release, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil || !found {
		return nil, false, err
	}
	return release, true, nil
}

// HandleSelfUpdate starts a background check for a newer release. The
// returned channel yields the newer version string if one is found, then
// closes; it closes immediately for dev builds.
func HandleSelfUpdate(currentVersion string, logger *zap.Logger, updater Updater) chan string {
	resultChannel := make(chan string)

	currentSemVer, err := semver.NewVersion(currentVersion)
	if err != nil {
		logger.Debug("running a dev build, skipping self-update check")
		close(resultChannel)
		return resultChannel
	}

	go fetchAndSaveLatestVersion(resultChannel, logger, updater, currentSemVer)

	return resultChannel
}

// ReadLatestVersion returns the newer version recorded by a previous check,
// or "" when none is recorded.
func ReadLatestVersion() string {
	data, err := os.ReadFile(core.LatestVersionFile())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func fetchAndSaveLatestVersion(resultChannel chan string, logger *zap.Logger, updater Updater, currentSemVer *semver.Version) {
	defer close(resultChannel)

	latest, found, err := updater.DetectLatest(context.Background(), repoSlug)
	if err != nil {
		logger.Warn("error occurred while getting latest version from remote", zap.Error(err))
		return
	}
	if !found {
		logger.Warn("latest version could not be found")
		return
	}

	latestSemVer, err := semver.NewVersion(latest.Version())
	if err != nil {
		logger.Error("failed to parse latest version", zap.Error(err))
		return
	}

	if latestSemVer.LessThanEqual(currentSemVer) {
		logger.Debug("already running the latest version")
		return
	}

	if err := os.WriteFile(core.LatestVersionFile(), []byte(latest.Version()), 0644); err != nil {
		logger.Error("failed to save latest version", zap.Error(err))
		return
	}

	logger.Info("new version available",
		zap.String("current", currentSemVer.String()),
		zap.String("latest", latest.Version()),
	)
	resultChannel <- latest.Version()
}
