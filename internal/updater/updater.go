// Package updater checks GitHub releases for newer cratestack versions and
// replaces the running binary on request.
package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	// DefaultRepo is the GitHub owner/name releases are fetched from
	DefaultRepo      = "CaptShanks/cratestack"
	installScriptURL = "https://raw.githubusercontent.com/CaptShanks/cratestack/main/install.sh"
	cacheFile        = "update-check"
)

// Checker looks up the latest release of Repo, caching the answer in CacheDir
type Checker struct {
	Repo         string
	CacheDir     string
	IntervalDays int

	detect func(repo string) (*selfupdate.Release, bool, error)
	update func(current semver.Version, repo string) (*selfupdate.Release, error)
	now    func() time.Time
}

// New returns a Checker backed by the GitHub releases API
func New(repo, cacheDir string, intervalDays int) *Checker {
	if repo == "" {
		repo = DefaultRepo
	}
	return &Checker{
		Repo:         repo,
		CacheDir:     cacheDir,
		IntervalDays: intervalDays,
		detect:       selfupdate.DetectLatest,
		update:       selfupdate.UpdateSelf,
		now:          time.Now,
	}
}

// CheckLatest fetches the latest release and compares it with currentVersion.
// Returns (latestVersion, hasUpdate, err).
func (c *Checker) CheckLatest(currentVersion string) (latestVersion string, hasUpdate bool, err error) {
	latest, found, err := c.detect(c.Repo)
	if err != nil {
		return "", false, err
	}
	if !found || latest == nil {
		return "", false, nil
	}
	latestVersion = normalizeVersion(latest.Version.String())
	hasUpdate, err = newer(latestVersion, currentVersion)
	return latestVersion, hasUpdate, err
}

// newer reports whether latest is a higher semver than current
func newer(latest, current string) (bool, error) {
	cur, err := semver.Parse(normalizeVersion(current))
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", current, err)
	}
	lat, err := semver.Parse(normalizeVersion(latest))
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", latest, err)
	}
	return lat.GT(cur), nil
}

// updateCache holds the latest release seen. Whether it is an update depends
// on the running version, so that is decided on every read.
type updateCache struct {
	LastCheckEpoch int64  `json:"last_check_epoch"`
	LatestVersion  string `json:"latest_version,omitempty"`
}

// CheckLatestWithCache is CheckLatest, but reuses the previous answer while
// it is younger than IntervalDays. Cache failures fall back to a live check.
func (c *Checker) CheckLatestWithCache(currentVersion string) (latestVersion string, hasUpdate bool, err error) {
	intervalDays := c.IntervalDays
	if intervalDays <= 0 {
		intervalDays = 7
	}
	interval := time.Duration(intervalDays) * 24 * time.Hour
	path := filepath.Join(c.CacheDir, cacheFile)

	if c.CacheDir != "" {
		if data, err := os.ReadFile(path); err == nil {
			var cache updateCache
			if json.Unmarshal(data, &cache) == nil {
				checked := time.Unix(cache.LastCheckEpoch, 0)
				if c.now().Sub(checked) < interval {
					if cache.LatestVersion == "" {
						return "", false, nil
					}
					hasUpdate, err := newer(cache.LatestVersion, currentVersion)
					return cache.LatestVersion, hasUpdate, err
				}
			}
		}
	}

	latest, hasUpdate, err := c.CheckLatest(currentVersion)
	if err != nil {
		return "", false, err
	}

	if c.CacheDir != "" {
		cache := updateCache{
			LastCheckEpoch: c.now().Unix(),
			LatestVersion:  latest,
		}
		if data, err := json.Marshal(cache); err == nil {
			if os.MkdirAll(c.CacheDir, 0755) == nil {
				_ = os.WriteFile(path, data, 0644)
			}
		}
	}
	return latest, hasUpdate, nil
}

// Upgrade replaces the current binary with the latest release and returns its version
func (c *Checker) Upgrade(currentVersion string) (newVersion string, err error) {
	v, err := semver.Parse(normalizeVersion(currentVersion))
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", currentVersion, err)
	}
	latest, err := c.update(v, c.Repo)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

// CurlFallbackMessage returns the message to display when self-update fails.
func CurlFallbackMessage(reason error) string {
	return fmt.Sprintf(`Self-update failed: %v
To upgrade manually, run:
  curl -sSfL %s | sh`, reason, installScriptURL)
}

func normalizeVersion(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}
