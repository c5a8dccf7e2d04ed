// Package update checks GitHub for newer sift releases. Results are
// cached on disk so the TUI can surface an update hint without hitting
// the network on every launch.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sift-sh/sift/internal/version"
)

const (
	releaseAPIURL = "https://api.github.com/repos/sift-sh/sift/releases/latest"
	userAgent     = "sift-update-check"
)

// Release is the subset of the GitHub release payload we care about.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Info describes the outcome of an update check.
type Info struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
	Available      bool
}

// Check asks GitHub for the latest release and compares it against the
// running version. Development builds never report an update.
func Check(ctx context.Context) (*Info, error) {
	info := &Info{
		CurrentVersion: version.Version,
	}
	if strings.Contains(version.Version, "unknown") {
		return info, nil
	}

	release, err := fetchLatestRelease(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}

	info.LatestVersion = strings.TrimPrefix(release.TagName, "v")
	info.ReleaseURL = release.HTMLURL
	info.Available = compareVersions(info.CurrentVersion, info.LatestVersion) < 0
	return info, nil
}

func fetchLatestRelease(ctx context.Context) (*Release, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseAPIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(body))
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

// compareVersions orders two dotted versions numerically, part by part.
// Returns -1, 0, or 1.
func compareVersions(v1, v2 string) int {
	v1 = strings.TrimPrefix(v1, "v")
	v2 = strings.TrimPrefix(v2, "v")

	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	for i := 0; i < len(parts1) && i < len(parts2); i++ {
		var n1, n2 int
		fmt.Sscanf(parts1[i], "%d", &n1)
		fmt.Sscanf(parts2[i], "%d", &n2)
		if n1 != n2 {
			if n1 < n2 {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(parts1) < len(parts2):
		return -1
	case len(parts1) > len(parts2):
		return 1
	}
	return 0
}
