package domain

import "errors"

// ErrFileNotFound distinguishes an unreadable profile from an unparseable
// one at the parser boundary.
var ErrFileNotFound = errors.New("file not found")

// ProfileParser decodes a profile file into a document tree.
type ProfileParser interface {
	// ParseFile reads and decodes a plist file. Returns ErrFileNotFound
	// (possibly wrapped) when the file does not exist, and a decode error
	// when the bytes are not a valid plist.
	ParseFile(path string) (Value, error)
}

// ManifestResolver looks up schemas by payload type. Implementations must
// be safe for concurrent lookups.
type ManifestResolver interface {
	// Resolve returns the manifest for a payload type, trying exact,
	// case-insensitive, and platform-suffix matches in that order.
	Resolve(payloadType string) (*Manifest, bool)
	// Version returns the manifest version recorded in the index.
	Version(payloadType string) (int, bool)
}

// ManifestIndexEntry is one row of the manifest index: where a schema
// file lives and its version metadata.
type ManifestIndexEntry struct {
	Path     string
	Version  int
	Modified string
	Category string
}
