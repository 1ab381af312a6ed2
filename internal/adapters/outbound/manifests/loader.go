// Package manifests resolves payload types to parsed ProfileManifests
// schemas, loading manifest files lazily from a local checkout.
package manifests

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/plist"
	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

// Categories partition the manifest index.
var Categories = []string{
	"ManifestsApple",
	"ManagedPreferencesApple",
	"ManagedPreferencesApplications",
	"ManagedPreferencesDeveloper",
}

// platformSuffixes are tried, in order, when neither an exact nor a
// case-insensitive index match exists for a payload type.
var platformSuffixes = []string{"-macOS", "-iOS", "-tvOS", ".macOS", ".iOS", ".tvOS"}

// Loader implements domain.ManifestResolver over a ProfileManifests
// checkout. The index and individual manifests are loaded lazily; all
// state is guarded by one mutex, so concurrent Resolve calls are safe
// and each manifest file is parsed at most once.
type Loader struct {
	repoDir string

	mu          sync.Mutex
	index       map[string]domain.ManifestIndexEntry
	manifests   map[string]*domain.Manifest // keyed by requested payload type
	indexLoaded bool
}

// New creates a Loader rooted at a ProfileManifests checkout directory.
func New(repoDir string) *Loader {
	return &Loader{
		repoDir:   repoDir,
		index:     make(map[string]domain.ManifestIndexEntry),
		manifests: make(map[string]*domain.Manifest),
	}
}

// Resolve looks up the manifest for a payload type. Lookup order: exact
// index match, case-insensitive match, then platform-suffix variants.
// The parsed manifest is memoized under the requested spelling, so a
// repeat lookup is a map hit even when the underlying match was a
// fallback. Malformed manifest files degrade to "not found".
func (l *Loader) Resolve(payloadType string) (*domain.Manifest, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadIndex()

	if m, ok := l.manifests[payloadType]; ok {
		return m, true
	}

	entry, ok := l.lookup(payloadType)
	if !ok {
		return nil, false
	}

	manifestPath := filepath.Join(l.repoDir, filepath.FromSlash(entry.Path))
	tree, err := plist.New().ParseFile(manifestPath)
	if err != nil {
		log.Printf("manifests: failed to parse %s: %v", manifestPath, err)
		return nil, false
	}
	if tree.Kind != domain.KindDictionary {
		log.Printf("manifests: %s is not a dictionary manifest", manifestPath)
		return nil, false
	}

	m := buildManifest(tree)
	l.manifests[payloadType] = m
	return m, true
}

// Version returns the index version for a payload type (exact match only).
func (l *Loader) Version(payloadType string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadIndex()

	entry, ok := l.index[payloadType]
	if !ok || entry.Version == 0 {
		return 0, false
	}
	return entry.Version, true
}

// Domains returns every payload type known to the index, sorted.
func (l *Loader) Domains() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadIndex()

	out := make([]string, 0, len(l.index))
	for d := range l.index {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// lookup finds an index entry with fallbacks. Caller holds l.mu.
func (l *Loader) lookup(payloadType string) (domain.ManifestIndexEntry, bool) {
	if entry, ok := l.index[payloadType]; ok {
		return entry, true
	}

	for d, entry := range l.index {
		if strings.EqualFold(d, payloadType) {
			return entry, true
		}
	}

	for _, suffix := range platformSuffixes {
		if entry, ok := l.index[payloadType+suffix]; ok {
			return entry, true
		}
	}

	return domain.ManifestIndexEntry{}, false
}

// loadIndex parses Manifests/index once. A missing or malformed index
// leaves the loader empty: every lookup then misses, which the engine
// reports as unknown payload types rather than a hard failure.
// Caller holds l.mu.
func (l *Loader) loadIndex() {
	if l.indexLoaded {
		return
	}
	l.indexLoaded = true

	indexPath := filepath.Join(l.repoDir, "Manifests", "index")
	if _, err := os.Stat(indexPath); err != nil {
		log.Printf("manifests: index not found at %s", indexPath)
		return
	}

	tree, err := plist.New().ParseFile(indexPath)
	if err != nil {
		log.Printf("manifests: failed to parse index: %v", err)
		return
	}
	if tree.Kind != domain.KindDictionary {
		return
	}

	for _, category := range tree.Keys {
		if category == "date" {
			continue
		}
		domains, ok := tree.Get(category)
		if !ok || domains.Kind != domain.KindDictionary {
			continue
		}
		for _, name := range domains.Keys {
			info, ok := domains.Get(name)
			if !ok || info.Kind != domain.KindDictionary {
				continue
			}
			entry := domain.ManifestIndexEntry{
				Path:     info.GetString("path"),
				Category: category,
			}
			if v, ok := info.Get("version"); ok && v.Kind == domain.KindInteger {
				entry.Version = int(v.Int)
			}
			if mod, ok := info.Get("modified"); ok {
				entry.Modified = displayString(mod)
			}
			l.index[name] = entry
		}
	}
}

func displayString(v domain.Value) string {
	switch v.Kind {
	case domain.KindString:
		return v.Str
	case domain.KindDate:
		return v.Time.UTC().Format("2006-01-02T15:04:05Z")
	}
	return ""
}
