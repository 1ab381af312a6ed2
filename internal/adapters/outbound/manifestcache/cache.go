// Package manifestcache manages the local ProfileManifests checkout:
// cloning, staleness-driven refresh, and cache metadata.
package manifestcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
)

const (
	repoURL      = "https://github.com/ProfileManifests/ProfileManifests.git"
	repoDirName  = "ProfileManifests"
	metadataName = "cache.json"
)

// ErrOfflineNoCache means validation cannot proceed: there is no local
// manifest checkout and network access is disallowed. Callers map this
// to an operational (exit 2) failure, not a validation issue.
var ErrOfflineNoCache = errors.New("manifest cache not found and offline mode is enabled")

// Cache owns one ProfileManifests checkout under a cache directory.
type Cache struct {
	cacheDir string
	maxAge   time.Duration
	offline  bool
}

// New creates a Cache. An empty cacheDir resolves to the platform
// default (see DefaultCacheDir); maxAgeDays <= 0 falls back to 7.
func New(cacheDir string, maxAgeDays int, offline bool) *Cache {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	if maxAgeDays <= 0 {
		maxAgeDays = 7
	}
	return &Cache{
		cacheDir: cacheDir,
		maxAge:   time.Duration(maxAgeDays) * 24 * time.Hour,
		offline:  offline,
	}
}

// DefaultCacheDir resolves the cache location: VALIDATOR_CACHE_DIR, then
// XDG_CACHE_HOME, then ~/.cache.
func DefaultCacheDir() string {
	if dir := os.Getenv("VALIDATOR_CACHE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "mobileconfig-validator")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mobileconfig-validator")
	}
	return filepath.Join(home, ".cache", "mobileconfig-validator")
}

// RepoDir is the checkout root that manifest index paths are relative to.
func (c *Cache) RepoDir() string {
	return filepath.Join(c.cacheDir, repoDirName)
}

// Ensure makes the checkout available, cloning or refreshing as needed,
// and returns its path. Offline mode never touches the network: it
// fails with ErrOfflineNoCache when nothing is cached, and serves a
// stale checkout otherwise.
func (c *Cache) Ensure() (string, error) {
	repoDir := c.RepoDir()

	if _, err := os.Stat(repoDir); errors.Is(err, fs.ErrNotExist) {
		if c.offline {
			return "", fmt.Errorf("%w (looked in %s)", ErrOfflineNoCache, repoDir)
		}
		if err := c.clone(); err != nil {
			return "", err
		}
		return repoDir, nil
	}

	if c.isStale() && !c.offline {
		// Refresh failures are tolerated; the stale checkout still works.
		_, _ = c.pull()
	}

	return repoDir, nil
}

// Update refreshes the checkout from remote. Returns true if anything
// changed. A missing checkout is cloned regardless of force.
func (c *Cache) Update(force bool) (bool, error) {
	if c.offline {
		return false, nil
	}

	if _, err := os.Stat(c.RepoDir()); errors.Is(err, fs.ErrNotExist) {
		if err := c.clone(); err != nil {
			return false, err
		}
		return true, nil
	}

	if force || c.isStale() {
		return c.pull()
	}
	return false, nil
}

// Clear removes the entire cache directory.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.cacheDir)
}

// Status describes the cache for the status command and MCP tool.
type Status struct {
	CacheDir      string `json:"cache_dir"`
	Exists        bool   `json:"exists"`
	Offline       bool   `json:"offline"`
	MaxAgeDays    int    `json:"max_age_days"`
	CloneCreated  string `json:"clone_created,omitempty"`
	LastCheck     string `json:"last_check,omitempty"`
	IsStale       bool   `json:"is_stale,omitempty"`
	Commit        string `json:"commit,omitempty"`
	ManifestCount int    `json:"manifest_count,omitempty"`
}

// GetStatus reports the current cache state.
func (c *Cache) GetStatus() Status {
	status := Status{
		CacheDir:   c.cacheDir,
		Offline:    c.offline,
		MaxAgeDays: int(c.maxAge / (24 * time.Hour)),
	}

	repoDir := c.RepoDir()
	if _, err := os.Stat(repoDir); err != nil {
		return status
	}
	status.Exists = true
	status.IsStale = c.isStale()

	meta := c.loadMetadata()
	status.CloneCreated = meta.CloneCreated
	status.LastCheck = meta.LastCheck

	if repo, err := git.PlainOpen(repoDir); err == nil {
		if head, err := repo.Head(); err == nil {
			status.Commit = head.Hash().String()[:7]
		}
	}

	manifestsDir := filepath.Join(repoDir, "Manifests")
	_ = filepath.WalkDir(manifestsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && filepath.Ext(d.Name()) == ".plist" {
			status.ManifestCount++
		}
		return nil
	})

	return status
}

func (c *Cache) clone() error {
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return err
	}

	_, err := git.PlainClone(c.RepoDir(), false, &git.CloneOptions{
		URL:          repoURL,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		return fmt.Errorf("cloning ProfileManifests: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	c.saveMetadata(metadata{CacheVersion: 1, CloneCreated: now, LastCheck: now})
	return nil
}

func (c *Cache) pull() (bool, error) {
	repo, err := git.PlainOpen(c.RepoDir())
	if err != nil {
		return false, fmt.Errorf("opening cache repo: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("opening cache worktree: %w", err)
	}

	err = worktree.Pull(&git.PullOptions{SingleBranch: true})

	// Record the check time even when nothing changed, so a fresh
	// checkout is not re-pulled on every run.
	meta := c.loadMetadata()
	meta.LastCheck = time.Now().UTC().Format(time.RFC3339)
	c.saveMetadata(meta)

	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("updating ProfileManifests: %w", err)
	}
	return true, nil
}

func (c *Cache) isStale() bool {
	meta := c.loadMetadata()
	if meta.LastCheck == "" {
		return true
	}
	last, err := time.Parse(time.RFC3339, meta.LastCheck)
	if err != nil {
		return true
	}
	return time.Since(last) > c.maxAge
}

type metadata struct {
	CacheVersion int    `json:"cache_version"`
	CloneCreated string `json:"clone_created,omitempty"`
	LastCheck    string `json:"last_check,omitempty"`
}

func (c *Cache) metadataPath() string {
	return filepath.Join(c.cacheDir, metadataName)
}

func (c *Cache) loadMetadata() metadata {
	data, err := os.ReadFile(c.metadataPath())
	if err != nil {
		return metadata{}
	}
	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return metadata{}
	}
	return meta
}

func (c *Cache) saveMetadata(meta metadata) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(c.cacheDir, 0755)
	_ = os.WriteFile(c.metadataPath(), data, 0644)
}
