package core

import "time"

// TranslationPair maps a source/target language combination to a model
// identifier. Loaded once at startup from the pair mapping file and
// immutable afterwards.
type TranslationPair struct {
	Key     string // normalized "source-target" form, e.g. "en-fr"
	Source  string
	Target  string
	ModelID string
}

// StorageLocator describes where a model's artifacts live. LocalDir is
// always set; RemotePrefix is only meaningful in s3 storage mode.
type StorageLocator struct {
	Pair         string
	LocalDir     string
	RemotePrefix string
}

// ModelHandle is the loaded, ready-to-run representation of one
// translation model. Owned by the model cache entry for its pair and
// released only at process shutdown.
type ModelHandle struct {
	Pair     string
	ModelID  string
	Ref      string // runtime-side model reference
	LoadedAt time.Time
}

// TranslateRequest carries one inference call to the runtime.
type TranslateRequest struct {
	ModelRef      string
	Text          string
	MaxLength     int
	NumBeams      int
	EarlyStopping bool
}

// ObjectInfo describes one stored artifact object.
type ObjectInfo struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}
