// Package glyph turns text into letter outlines for fabrication.
package glyph

import (
	"os"
	"sync"

	"artprep/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/xerrors"
)

// fonts caches parsed fonts for the life of the process. Entries are
// never evicted; when two callers race to load the same key the first
// one stored wins.
var fonts = struct {
	sync.RWMutex
	byKey map[string]*sfnt.Font
}{byKey: map[string]*sfnt.Font{}}

func cached(key string) (*sfnt.Font, bool) {
	fonts.RLock()
	defer fonts.RUnlock()
	f, ok := fonts.byKey[key]
	return f, ok
}

func store(key string, f *sfnt.Font) *sfnt.Font {
	fonts.Lock()
	defer fonts.Unlock()
	if existing, ok := fonts.byKey[key]; ok {
		return existing
	}
	fonts.byKey[key] = f
	return f
}

// Register parses font data under key, or returns the font already
// registered under it.
func Register(key string, data []byte) (*sfnt.Font, error) {
	if f, ok := cached(key); ok {
		return f, nil
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, xerrors.Errorf("parsing font %s: %w", key, err)
	}
	h, typo := readTypoHeight(data)
	logging.Named("glyph").Debug("font loaded", zap.String("key", key), zap.Int("glyphs", f.NumGlyphs()),
		zap.Bool("typo_metrics", typo))
	if typo {
		setTypoHeight(f, h)
	}
	return store(key, f), nil
}

// Load reads a TrueType or OpenType font file, keyed by its path.
func Load(path string) (*sfnt.Font, error) {
	if f, ok := cached(path); ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("reading font: %w", err)
	}
	return Register(path, data)
}
