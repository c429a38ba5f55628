// Package evidence persists retrieval results per entity so a company is
// searched at most once across runs. The cache is a directory of JSON
// files keyed by sanitized entity name; entries never expire.
package evidence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"

	"github.com/lucen-labs/irreview/internal/model"
)

const maxNameLen = 120

var (
	unsafeChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// Cache reads and writes per-entity evidence files under Dir.
type Cache struct {
	dir string
}

// NewCache creates the cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "evidence: create cache dir %s", dir)
	}
	return &Cache{dir: dir}, nil
}

// Load returns the cached evidence for the entity, or nil when no entry
// exists. Corrupt entries read as missing so the caller re-queries.
func (c *Cache) Load(entity string) *model.Evidence {
	data, err := os.ReadFile(c.path(entity))
	if err != nil {
		return nil
	}
	var ev model.Evidence
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil
	}
	return &ev
}

// Save writes the evidence for the entity. Empty results are written too:
// a cached empty entry stops the same failing query from being re-issued
// on the next run.
func (c *Cache) Save(entity string, ev *model.Evidence) error {
	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return eris.Wrap(err, "evidence: marshal")
	}
	if err := os.WriteFile(c.path(entity), data, 0o644); err != nil {
		return eris.Wrapf(err, "evidence: write %s", entity)
	}
	return nil
}

func (c *Cache) path(entity string) string {
	return filepath.Join(c.dir, SanitizeName(entity)+".json")
}

// SanitizeName turns an entity name into a safe filename: NFC-normalized
// (Korean names come out of PDF extraction decomposed), filesystem-unsafe
// characters replaced, whitespace collapsed, length bounded.
func SanitizeName(name string) string {
	s := norm.NFC.String(name)
	s = unsafeChars.ReplaceAllString(s, "_")
	s = strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
	if s == "" {
		return "UNKNOWN"
	}
	if runes := []rune(s); len(runes) > maxNameLen {
		s = string(runes[:maxNameLen])
	}
	return s
}
