package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/qluke/genshin-builds/internal/domain"
)

const (
	DefaultLang    = "en"
	MembershipFile = "artifacts_detail.json"
)

// DataDirError is returned when a data directory does not contain the
// expected catalog files.
type DataDirError struct {
	Dir   string
	Probe string
}

func (e *DataDirError) Error() string {
	return "catalog data dir does not look valid: missing " + e.Probe + " (dir=" + e.Dir + ")"
}

var langRe = regexp.MustCompile(`^[a-z]{2}(-[a-z]{2})?$`)

// ResolveLang maps a requested language to the one that will be served:
// the lowercased code when dataDir has a directory for it, DefaultLang
// otherwise. Anything that is not a short language code resolves to
// DefaultLang, so the result is always safe to join onto dataDir.
func ResolveLang(dataDir, lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !langRe.MatchString(lang) {
		return DefaultLang
	}
	if lang != DefaultLang && !dirExists(filepath.Join(dataDir, lang)) {
		return DefaultLang
	}
	return lang
}

// Load reads the catalogs for lang from dataDir. Character, weapon and
// artifact files live under dataDir/<lang>/; the set membership table is
// shared by all languages.
func Load(dataDir, lang string) (*Catalog, error) {
	lang = ResolveLang(dataDir, lang)
	langDir := filepath.Join(dataDir, lang)
	if !dirExists(langDir) {
		return nil, &DataDirError{Dir: dataDir, Probe: langDir}
	}

	var chars []domain.Character
	if err := readJSONFile(filepath.Join(langDir, "characters.json"), &chars); err != nil {
		return nil, fmt.Errorf("load characters: %w", err)
	}
	var weapons []domain.Weapon
	if err := readJSONFile(filepath.Join(langDir, "weapons.json"), &weapons); err != nil {
		return nil, fmt.Errorf("load weapons: %w", err)
	}
	var artifacts []domain.Artifact
	if err := readJSONFile(filepath.Join(langDir, "artifacts.json"), &artifacts); err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}
	membership, err := LoadMembership(filepath.Join(dataDir, MembershipFile))
	if err != nil {
		return nil, err
	}

	c := New(chars, weapons, artifacts, membership)
	c.Lang = lang
	return c, nil
}

// LoadMembership reads the set membership table. Short codes may be stored
// as JSON strings or numbers; entries without ids are skipped.
func LoadMembership(path string) ([]domain.SetMembership, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load set membership %s: %w", path, err)
	}
	return ParseMembership(b)
}

func ParseMembership(b []byte) ([]domain.SetMembership, error) {
	if !gjson.ValidBytes(b) {
		return nil, errors.New("parse set membership: invalid json")
	}
	root := gjson.ParseBytes(b)
	if !root.IsArray() {
		return nil, errors.New("parse set membership: expected a json array")
	}

	var out []domain.SetMembership
	root.ForEach(func(_, v gjson.Result) bool {
		ids := v.Get("ids")
		if !ids.IsArray() {
			return true
		}
		m := domain.SetMembership{Set: strings.TrimSpace(v.Get("set").String())}
		ids.ForEach(func(_, id gjson.Result) bool {
			m.IDs = append(m.IDs, id.String())
			return true
		})
		out = append(out, m)
		return true
	})
	return out, nil
}

func readJSONFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// Cache loads catalogs per language on first use and keeps them for the
// lifetime of the process. Entries are keyed by the resolved language, so
// unknown codes share the DefaultLang entry.
type Cache struct {
	dataDir string

	mu     sync.Mutex
	byLang map[string]*Catalog
}

func NewCache(dataDir string) *Cache {
	return &Cache{dataDir: dataDir, byLang: make(map[string]*Catalog)}
}

func (c *Cache) Get(lang string) (*Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cat, ok := c.byLang[lang]; ok {
		return cat, nil
	}
	lang = ResolveLang(c.dataDir, lang)
	if cat, ok := c.byLang[lang]; ok {
		return cat, nil
	}
	cat, err := Load(c.dataDir, lang)
	if err != nil {
		return nil, err
	}
	c.byLang[cat.Lang] = cat
	return cat, nil
}

// Len reports the number of cached catalogs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byLang)
}

// Put registers an already built catalog, bypassing the data dir.
func (c *Cache) Put(lang string, cat *Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byLang[lang] = cat
}
