package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kpauljoseph/invoice-renamer/pkg/logger"
	"github.com/kpauljoseph/invoice-renamer/pkg/version"
)

const (
	DefaultReleaseURL = "https://api.github.com/repos/kpauljoseph/invoice-renamer/releases/latest"
	userAgent         = "invoice-renamer-updater"
	checkInterval     = time.Hour
)

var ErrNoRelease = errors.New("no published release")

type Checker struct {
	client      *http.Client
	releaseURL  string
	current     string
	logger      *logger.Logger
	lastChecked time.Time
}

type Option func(*Checker)

func WithReleaseURL(url string) Option {
	return func(c *Checker) {
		c.releaseURL = url
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		c.client = client
	}
}

// WithCurrentVersion overrides the version compiled into the binary.
func WithCurrentVersion(v string) Option {
	return func(c *Checker) {
		c.current = v
	}
}

func NewChecker(logger *logger.Logger, options ...Option) *Checker {
	c := &Checker{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		releaseURL: DefaultReleaseURL,
		current:    version.Version,
		logger:     logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// CheckForUpdates asks the release endpoint for the latest tag. A second call
// within an hour of a successful one returns nil, nil.
func (c *Checker) CheckForUpdates(ctx context.Context) (*UpdateInfo, error) {
	if !c.lastChecked.IsZero() && time.Since(c.lastChecked) < checkInterval {
		return nil, nil
	}

	c.logger.Debug("Checking for updates at %s", c.releaseURL)

	release, err := c.fetchLatest(ctx)
	if err != nil {
		return nil, err
	}
	c.lastChecked = time.Now()

	currentVersion := strings.TrimPrefix(c.current, "v")
	latestVersion := strings.TrimPrefix(release.TagName, "v")

	return &UpdateInfo{
		CurrentVersion: currentVersion,
		LatestVersion:  latestVersion,
		UpdateMessage:  release.Body,
		DownloadURL:    release.HTMLURL,
		IsAvailable:    compareVersions(currentVersion, latestVersion) < 0,
	}, nil
}

func (c *Checker) fetchLatest(ctx context.Context) (*GitHubRelease, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.releaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoRelease
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release endpoint returned status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}
	if release.TagName == "" || release.Draft {
		return nil, ErrNoRelease
	}

	return &release, nil
}

// compareVersions returns:
//
//	-1 if v1 < v2
//	 0 if v1 == v2
//	 1 if v1 > v2
//
// Parts are compared numerically; a pre-release suffix ("1.2.0-rc1") sorts
// before the plain version.
func compareVersions(v1, v2 string) int {
	core1, pre1, _ := strings.Cut(v1, "-")
	core2, pre2, _ := strings.Cut(v2, "-")

	parts1 := strings.Split(core1, ".")
	parts2 := strings.Split(core2, ".")

	for i := 0; i < len(parts1) || i < len(parts2); i++ {
		n1, n2 := part(parts1, i), part(parts2, i)
		if n1 < n2 {
			return -1
		}
		if n1 > n2 {
			return 1
		}
	}

	switch {
	case pre1 == pre2:
		return 0
	case pre1 == "":
		return 1
	case pre2 == "":
		return -1
	case pre1 < pre2:
		return -1
	default:
		return 1
	}
}

func part(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}
