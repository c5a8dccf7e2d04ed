package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sift-sh/sift/internal/network"
	"github.com/sift-sh/sift/internal/version"
)

const (
	checkInterval = 24 * time.Hour
	cacheFileName = "last-update-check.json"
)

// lastCheck is the on-disk record of the previous check.
type lastCheck struct {
	CheckedAt     time.Time `json:"checked_at"`
	LatestVersion string    `json:"latest_version"`
	ReleaseURL    string    `json:"release_url"`
	Available     bool      `json:"available"`
}

func shouldCheck(dataDir string) bool {
	info, err := loadLastCheck(dataDir)
	if err != nil {
		return true
	}
	return time.Since(info.CheckedAt) > checkInterval
}

func saveLastCheck(dataDir string, info *Info) error {
	record := lastCheck{
		CheckedAt:     time.Now(),
		LatestVersion: info.LatestVersion,
		ReleaseURL:    info.ReleaseURL,
		Available:     info.Available,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dataDir, cacheFileName), data, 0o644)
}

func loadLastCheck(dataDir string) (*lastCheck, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, cacheFileName))
	if err != nil {
		return nil, err
	}
	var info lastCheck
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CheckAsync runs an update check in the background, at most once per
// checkInterval, and delivers the result on the returned channel when an
// update is available. Failures are logged and swallowed; an update hint
// must never break startup.
func CheckAsync(ctx context.Context, dataDir string) <-chan *Info {
	ch := make(chan *Info, 1)

	go func() {
		defer close(ch)

		if !shouldCheck(dataDir) {
			// SIFT_FORCE_UPDATE_NOTIFICATION replays the cached result,
			// for exercising the notification path.
			if os.Getenv("SIFT_FORCE_UPDATE_NOTIFICATION") == "1" {
				if cached, err := loadLastCheck(dataDir); err == nil && cached.Available {
					ch <- &Info{
						CurrentVersion: version.Version,
						LatestVersion:  cached.LatestVersion,
						ReleaseURL:     cached.ReleaseURL,
						Available:      true,
					}
				}
			}
			return
		}

		info, err := Check(ctx)
		if err != nil {
			if network.IsOfflineError(err) {
				slog.Debug("Skipping update check while offline")
			} else {
				slog.Warn("Update check failed", "error", err)
			}
			return
		}
		if err := saveLastCheck(dataDir, info); err != nil {
			slog.Warn("Failed to cache update check", "error", err)
		}
		if info.Available {
			ch <- info
		}
	}()

	return ch
}
