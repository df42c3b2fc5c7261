package updater

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChecker returns a Checker whose release lookup reports latest and counts calls
func fakeChecker(t *testing.T, latest string, calls *int) *Checker {
	t.Helper()
	c := New("", t.TempDir(), 7)
	c.detect = func(repo string) (*selfupdate.Release, bool, error) {
		*calls++
		assert.Equal(t, DefaultRepo, repo)
		if latest == "" {
			return nil, false, nil
		}
		return &selfupdate.Release{Version: semver.MustParse(latest)}, true, nil
	}
	return c
}

func TestCurlFallbackMessage(t *testing.T) {
	msg := CurlFallbackMessage(os.ErrPermission)
	if !strings.Contains(msg, "Self-update failed") {
		t.Errorf("expected message to contain 'Self-update failed', got: %s", msg)
	}
	if !strings.Contains(msg, "curl") || !strings.Contains(msg, "install.sh") {
		t.Errorf("expected curl install command, got: %s", msg)
	}
}

func TestCheckLatest(t *testing.T) {
	var calls int
	c := fakeChecker(t, "1.3.0", &calls)

	latest, hasUpdate, err := c.CheckLatest("v1.2.9")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", latest)
	assert.True(t, hasUpdate)

	_, hasUpdate, err = c.CheckLatest("1.3.0")
	require.NoError(t, err)
	assert.False(t, hasUpdate)

	_, _, err = c.CheckLatest("dev")
	assert.ErrorContains(t, err, `invalid version "dev"`)
}

func TestCheckLatestNoRelease(t *testing.T) {
	var calls int
	c := fakeChecker(t, "", &calls)
	latest, hasUpdate, err := c.CheckLatest("0.1.0")
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.False(t, hasUpdate)
}

func TestCheckLatestWithCache(t *testing.T) {
	var calls int
	c := fakeChecker(t, "2.0.0", &calls)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	latest, hasUpdate, err := c.CheckLatestWithCache("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", latest)
	assert.True(t, hasUpdate)
	assert.Equal(t, 1, calls)
	assert.FileExists(t, filepath.Join(c.CacheDir, cacheFile))

	// within the interval the cached answer is reused
	now = now.Add(6 * 24 * time.Hour)
	latest, _, err = c.CheckLatestWithCache("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", latest)
	assert.Equal(t, 1, calls)

	// after it the API is asked again
	now = now.Add(2 * 24 * time.Hour)
	_, _, err = c.CheckLatestWithCache("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCheckLatestWithCacheAfterUpgrade(t *testing.T) {
	var calls int
	c := fakeChecker(t, "2.0.0", &calls)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, hasUpdate, err := c.CheckLatestWithCache("1.0.0")
	require.NoError(t, err)
	require.True(t, hasUpdate)

	// the cache was written by 1.0.0; the upgraded binary must not be nudged
	now = now.Add(time.Hour)
	latest, hasUpdate, err := c.CheckLatestWithCache("2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", latest)
	assert.False(t, hasUpdate)
	assert.Equal(t, 1, calls)

	data, err := os.ReadFile(filepath.Join(c.CacheDir, cacheFile))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "has_update")
}

func TestCheckLatestWithCacheNoRelease(t *testing.T) {
	var calls int
	c := fakeChecker(t, "", &calls)

	for i := 0; i < 2; i++ {
		latest, hasUpdate, err := c.CheckLatestWithCache("1.0.0")
		require.NoError(t, err)
		assert.Empty(t, latest)
		assert.False(t, hasUpdate)
	}
	assert.Equal(t, 1, calls)
}

func TestCheckLatestWithCacheError(t *testing.T) {
	c := New("", t.TempDir(), 7)
	c.detect = func(string) (*selfupdate.Release, bool, error) {
		return nil, false, errors.New("rate limited")
	}
	_, _, err := c.CheckLatestWithCache("1.0.0")
	assert.ErrorContains(t, err, "rate limited")
	assert.NoFileExists(t, filepath.Join(c.CacheDir, cacheFile))
}

func TestUpgrade(t *testing.T) {
	c := New("", t.TempDir(), 7)
	c.update = func(current semver.Version, repo string) (*selfupdate.Release, error) {
		assert.Equal(t, "1.0.0", current.String())
		return &selfupdate.Release{Version: semver.MustParse("1.1.0")}, nil
	}
	v, err := c.Upgrade("v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", v)

	_, err = c.Upgrade("not-a-version")
	assert.Error(t, err)
}
