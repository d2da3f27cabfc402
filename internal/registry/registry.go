// Package registry resolves translation pair keys to model identifiers
// and supported-language metadata. The mapping is loaded once at
// startup and read-only afterwards.
package registry

import (
	"sort"

	"translateapi/internal/core"
	"translateapi/internal/util"
)

// Registry is the static pair-to-model mapping.
type Registry struct {
	pairs     map[string]core.TranslationPair
	languages map[string]string
}

// New builds a registry from the raw pair mapping and language-name
// mapping. Keys are normalized to lower case; entries with malformed
// keys, empty model identifiers, or language codes missing from the
// language mapping are dropped with a warning.
func New(mappings, languages map[string]string, logger core.Logger) *Registry {
	r := &Registry{
		pairs:     make(map[string]core.TranslationPair, len(mappings)),
		languages: make(map[string]string, len(languages)),
	}
	for code, name := range languages {
		r.languages[util.NormalizePair(code)] = name
	}

	for key, modelID := range mappings {
		normalized := util.NormalizePair(key)
		source, target, ok := util.SplitPair(normalized)
		if !ok {
			logger.Warn("Dropping malformed translation pair key '%s'", key)
			continue
		}
		if modelID == "" {
			logger.Warn("Dropping translation pair '%s' with empty model identifier", normalized)
			continue
		}
		if _, known := r.languages[source]; !known {
			logger.Warn("Dropping translation pair '%s': unknown source language '%s'", normalized, source)
			continue
		}
		if _, known := r.languages[target]; !known {
			logger.Warn("Dropping translation pair '%s': unknown target language '%s'", normalized, target)
			continue
		}
		r.pairs[normalized] = core.TranslationPair{
			Key:     normalized,
			Source:  source,
			Target:  target,
			ModelID: modelID,
		}
	}

	logger.Info("Registry initialized with %d translation pairs", len(r.pairs))
	return r
}

// Resolve returns the translation pair for a key, or a
// NotSupportedError when the key is absent from the mapping.
func (r *Registry) Resolve(pair string) (core.TranslationPair, error) {
	normalized := util.NormalizePair(pair)
	tp, ok := r.pairs[normalized]
	if !ok {
		return core.TranslationPair{}, &core.NotSupportedError{
			Pair:      normalized,
			Supported: r.Pairs(),
		}
	}
	return tp, nil
}

// Contains reports whether the pair key is supported.
func (r *Registry) Contains(pair string) bool {
	_, ok := r.pairs[util.NormalizePair(pair)]
	return ok
}

// Pairs returns the supported pair keys in sorted order.
func (r *Registry) Pairs() []string {
	keys := make([]string, 0, len(r.pairs))
	for key := range r.pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LanguageName returns the display name for a language code, falling
// back to the code itself when unmapped.
func (r *Registry) LanguageName(code string) string {
	if name, ok := r.languages[util.NormalizePair(code)]; ok {
		return name
	}
	return code
}

// Len returns the number of supported pairs.
func (r *Registry) Len() int {
	return len(r.pairs)
}
