package domain

// SubStat is one rolled secondary stat with its roll count.
type SubStat struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// BuildSlot is one decoded artifact slot. ID/Name refer to the piece
// identity inside the owning set; they stay empty when the set is unknown.
type BuildSlot struct {
	ArtifactID  int64              `json:"artifactId"`
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name,omitempty"`
	Rarity      int                `json:"rarity,omitempty"`
	SetID       string             `json:"setId,omitempty"`
	MainStat    map[string]float64 `json:"mainStat"`
	SubStats    map[string]SubStat `json:"subStats"`
	SubStatsIDs string             `json:"subStatsIds"`
}

type BuildWeapon struct {
	WeaponID     int                `json:"weaponId"`
	ID           string             `json:"id,omitempty"`
	Name         string             `json:"name,omitempty"`
	Rarity       int                `json:"rarity,omitempty"`
	Level        int                `json:"level"`
	PromoteLevel int                `json:"promoteLevel"`
	Refinement   int                `json:"refinement"`
	Stat         map[string]float64 `json:"stat"`
}

// FieldFault reports an encoded field that could not be fully decoded.
type FieldFault struct {
	Field string `json:"field"`
	Err   error  `json:"-"`
}

func (f FieldFault) Error() string {
	if f.Err == nil {
		return f.Field
	}
	return f.Field + ": " + f.Err.Error()
}

func (f FieldFault) Unwrap() error { return f.Err }

// MarshalText lets faults serialize as their message.
func (f FieldFault) MarshalText() ([]byte, error) {
	return []byte(f.Error()), nil
}

type DecodedBuild struct {
	AvatarID      int                `json:"avatarId"`
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Rarity        int                `json:"rarity"`
	Level         int                `json:"level"`
	Ascension     int                `json:"ascension"`
	Constellation int                `json:"constellation"`
	FetterLevel   int                `json:"fetterLevel"`
	Stats         map[string]float64 `json:"stats"`
	Flower        BuildSlot          `json:"flower"`
	Plume         BuildSlot          `json:"plume"`
	Sands         BuildSlot          `json:"sands"`
	Goblet        BuildSlot          `json:"goblet"`
	Circlet       BuildSlot          `json:"circlet"`
	Sets          []Artifact         `json:"sets"`
	Weapon        BuildWeapon        `json:"weapon"`
	Build         RawBuildRecord     `json:"builds"`
	Faults        []FieldFault       `json:"faults,omitempty"`
}

// Slot returns a pointer to the decoded slot of the given kind.
func (b *DecodedBuild) Slot(kind SlotKind) *BuildSlot {
	switch kind {
	case SlotFlower:
		return &b.Flower
	case SlotPlume:
		return &b.Plume
	case SlotSands:
		return &b.Sands
	case SlotGoblet:
		return &b.Goblet
	case SlotCirclet:
		return &b.Circlet
	}
	return nil
}

// MaterialTotal is a material summed over a level range. Index is the slot
// position the material was tagged with and drives output ordering.
type MaterialTotal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Rarity int    `json:"rarity"`
	Type   string `json:"type"`
	Index  int    `json:"index"`
}

type AggregateResult struct {
	Items []MaterialTotal `json:"items"`
	Cost  int             `json:"cost"`
}

// Profile is a player with their decoded builds.
type Profile struct {
	Player
	Region string          `json:"region"`
	Builds []*DecodedBuild `json:"builds"`
}
