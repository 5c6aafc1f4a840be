package catalog

import (
	"strconv"

	"github.com/qluke/genshin-builds/internal/domain"
)

// pieceIDPrefixLen is how many leading digits of a piece instance id
// identify its set in the membership table.
const pieceIDPrefixLen = 4

// Catalog holds the read-only reference data for one language, indexed for
// lookup. It is safe for concurrent readers.
type Catalog struct {
	Lang       string
	Characters []domain.Character
	Weapons    []domain.Weapon
	Artifacts  []domain.Artifact
	Membership []domain.SetMembership

	charByKey     map[int]*domain.Character
	charByID      map[string]*domain.Character
	weaponByKey   map[int]*domain.Weapon
	artifactByKey map[int]*domain.Artifact
	artifactByID  map[string]*domain.Artifact
	setByPrefix   map[string]string
}

func New(chars []domain.Character, weapons []domain.Weapon, artifacts []domain.Artifact, membership []domain.SetMembership) *Catalog {
	c := &Catalog{
		Characters:    chars,
		Weapons:       weapons,
		Artifacts:     artifacts,
		Membership:    membership,
		charByKey:     make(map[int]*domain.Character, len(chars)),
		charByID:      make(map[string]*domain.Character, len(chars)),
		weaponByKey:   make(map[int]*domain.Weapon, len(weapons)),
		artifactByKey: make(map[int]*domain.Artifact, len(artifacts)),
		artifactByID:  make(map[string]*domain.Artifact, len(artifacts)),
		setByPrefix:   make(map[string]string),
	}
	// First entry wins on duplicate keys, matching a linear find.
	for i := range chars {
		ch := &chars[i]
		if _, ok := c.charByKey[ch.Key]; !ok {
			c.charByKey[ch.Key] = ch
		}
		if _, ok := c.charByID[ch.ID]; !ok {
			c.charByID[ch.ID] = ch
		}
	}
	for i := range weapons {
		w := &weapons[i]
		if _, ok := c.weaponByKey[w.Key]; !ok {
			c.weaponByKey[w.Key] = w
		}
	}
	for i := range artifacts {
		a := &artifacts[i]
		if _, ok := c.artifactByKey[a.Key]; !ok {
			c.artifactByKey[a.Key] = a
		}
		if _, ok := c.artifactByID[a.ID]; !ok {
			c.artifactByID[a.ID] = a
		}
	}
	// Later membership entries overwrite earlier ones for the same prefix.
	for _, m := range membership {
		for _, prefix := range m.IDs {
			c.setByPrefix[prefix] = m.Set
		}
	}
	return c
}

func (c *Catalog) CharacterByKey(key int) (*domain.Character, bool) {
	ch, ok := c.charByKey[key]
	return ch, ok
}

func (c *Catalog) CharacterByID(id string) (*domain.Character, bool) {
	ch, ok := c.charByID[id]
	return ch, ok
}

func (c *Catalog) WeaponByKey(key int) (*domain.Weapon, bool) {
	w, ok := c.weaponByKey[key]
	return w, ok
}

func (c *Catalog) ArtifactByKey(key int) (*domain.Artifact, bool) {
	a, ok := c.artifactByKey[key]
	return a, ok
}

func (c *Catalog) ArtifactByID(id string) (*domain.Artifact, bool) {
	a, ok := c.artifactByID[id]
	return a, ok
}

// SetCatalogID converts a membership short code into the artifact catalog
// key: the code prefixed with "2", read as a number.
func SetCatalogID(shortCode string) (int, bool) {
	if shortCode == "" {
		return 0, false
	}
	n, err := strconv.Atoi("2" + shortCode)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PiecePrefix returns the leading digits of a piece instance id used by the
// membership table.
func PiecePrefix(pieceID int64) string {
	s := strconv.FormatInt(pieceID, 10)
	if len(s) > pieceIDPrefixLen {
		s = s[:pieceIDPrefixLen]
	}
	return s
}

// SetForPiece resolves the artifact set a piece instance belongs to.
func (c *Catalog) SetForPiece(pieceID int64) (*domain.Artifact, bool) {
	code, ok := c.setByPrefix[PiecePrefix(pieceID)]
	if !ok {
		return nil, false
	}
	key, ok := SetCatalogID(code)
	if !ok {
		return nil, false
	}
	return c.ArtifactByKey(key)
}
