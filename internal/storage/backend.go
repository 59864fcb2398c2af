package storage

import (
	"fmt"
	"strings"
)

// Backend kinds.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Default paths per backend kind.
const (
	DefaultJSONPath   = "file.json"
	DefaultSQLitePath = "hbnb.db"
	DefaultBoltPath   = "hbnb.bolt"
)

// BackendKinds returns the supported backend kinds.
func BackendKinds() []string {
	return []string{BackendJSON, BackendSQLite, BackendBolt, BackendMemory}
}

// DefaultPath returns the default storage path for a backend kind.
func DefaultPath(kind string) string {
	switch strings.ToLower(kind) {
	case BackendSQLite:
		return DefaultSQLitePath
	case BackendBolt:
		return DefaultBoltPath
	case BackendMemory:
		return ""
	default:
		return DefaultJSONPath
	}
}

// OpenBackend opens the backend of the given kind at path. An empty path
// selects the kind's default.
func OpenBackend(kind, path string) (Backend, error) {
	kind = strings.ToLower(kind)
	if path == "" {
		path = DefaultPath(kind)
	}

	switch kind {
	case BackendJSON, "":
		return NewFileBackend(path), nil
	case BackendSQLite:
		return OpenSQLiteBackend(path)
	case BackendBolt:
		return OpenBoltBackend(path)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (supported: %s)", kind, strings.Join(BackendKinds(), ", "))
	}
}
