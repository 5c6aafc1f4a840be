package domain

import "time"

// RawBuildRecord is one stored build as imported from a player profile.
// Stat strings keep the compact encoding used by the importer:
// "key|value,key|value" for stat blocks and "key|value/count,..." for substats.
type RawBuildRecord struct {
	ID            int64  `json:"id"`
	PlayerID      string `json:"playerId"`
	AvatarID      int    `json:"avatarId"`
	Level         int    `json:"level"`
	Ascension     int    `json:"ascension"`
	Constellation int    `json:"constellation"`
	FetterLevel   int    `json:"fetterLevel"`
	FightProps    string `json:"fightProps"`

	FlowerID         int64  `json:"flowerId"`
	FlowerMainStat   string `json:"flowerMainStat"`
	FlowerSubStats   string `json:"flowerSubStats"`
	FlowerSubstatsID string `json:"flowerSubstatsId"`

	PlumeID         int64  `json:"plumeId"`
	PlumeMainStat   string `json:"plumeMainStat"`
	PlumeSubStats   string `json:"plumeSubStats"`
	PlumeSubstatsID string `json:"plumeSubstatsId"`

	SandsID         int64  `json:"sandsId"`
	SandsMainStat   string `json:"sandsMainStat"`
	SandsSubStats   string `json:"sandsSubStats"`
	SandsSubstatsID string `json:"sandsSubstatsId"`

	GobletID         int64  `json:"gobletId"`
	GobletMainStat   string `json:"gobletMainStat"`
	GobletSubStats   string `json:"gobletSubStats"`
	GobletSubstatsID string `json:"gobletSubstatsId"`

	CircletID         int64  `json:"circletId"`
	CircletMainStat   string `json:"circletMainStat"`
	CircletSubStats   string `json:"circletSubStats"`
	CircletSubstatsID string `json:"circletSubstatsId"`

	WeaponID           int    `json:"weaponId"`
	WeaponLevel        int    `json:"weaponLevel"`
	WeaponPromoteLevel int    `json:"weaponPromoteLevel"`
	WeaponRefinement   int    `json:"weaponRefinement"`
	WeaponStat         string `json:"weaponStat"`
}

// SlotKind names the five artifact equipment slots.
type SlotKind string

const (
	SlotFlower  SlotKind = "flower"
	SlotPlume   SlotKind = "plume"
	SlotSands   SlotKind = "sands"
	SlotGoblet  SlotKind = "goblet"
	SlotCirclet SlotKind = "circlet"
)

// Slots lists the slot kinds in equipment order.
var Slots = []SlotKind{SlotFlower, SlotPlume, SlotSands, SlotGoblet, SlotCirclet}

// RawSlot is the per-slot view of a RawBuildRecord.
type RawSlot struct {
	Kind        SlotKind
	PieceID     int64
	MainStat    string
	SubStats    string
	SubstatsIDs string
}

// Slot returns the encoded fields of one equipment slot.
func (r RawBuildRecord) Slot(kind SlotKind) RawSlot {
	switch kind {
	case SlotFlower:
		return RawSlot{kind, r.FlowerID, r.FlowerMainStat, r.FlowerSubStats, r.FlowerSubstatsID}
	case SlotPlume:
		return RawSlot{kind, r.PlumeID, r.PlumeMainStat, r.PlumeSubStats, r.PlumeSubstatsID}
	case SlotSands:
		return RawSlot{kind, r.SandsID, r.SandsMainStat, r.SandsSubStats, r.SandsSubstatsID}
	case SlotGoblet:
		return RawSlot{kind, r.GobletID, r.GobletMainStat, r.GobletSubStats, r.GobletSubstatsID}
	case SlotCirclet:
		return RawSlot{kind, r.CircletID, r.CircletMainStat, r.CircletSubStats, r.CircletSubstatsID}
	}
	return RawSlot{Kind: kind}
}

type Material struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Rarity int    `json:"rarity"`
}

// AscensionStep is the cost of reaching one ascension tier.
// Mat2 is absent for characters without an elemental stone requirement.
type AscensionStep struct {
	Ascension int       `json:"ascension"`
	Level     []int     `json:"level,omitempty"`
	Cost      int       `json:"cost"`
	Mat1      Material  `json:"mat1"`
	Mat2      *Material `json:"mat2,omitempty"`
	Mat3      Material  `json:"mat3"`
	Mat4      Material  `json:"mat4"`
}

// TalentLevel is the cost of raising a talent to Level.
type TalentLevel struct {
	Level int        `json:"level"`
	Cost  int        `json:"cost"`
	Items []Material `json:"items"`
}

type Character struct {
	Key             int             `json:"_id"`
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Rarity          int             `json:"rarity"`
	Element         string          `json:"element,omitempty"`
	WeaponType      string          `json:"weapon_type,omitempty"`
	Ascension       []AscensionStep `json:"ascension,omitempty"`
	TalentMaterials []TalentLevel   `json:"talent_materials,omitempty"`
}

type Weapon struct {
	Key    int    `json:"_id"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rarity int    `json:"rarity"`
	Type   string `json:"type,omitempty"`
}

// ArtifactPiece is the identity of one piece kind inside a set.
type ArtifactPiece struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Artifact is an artifact set. Piece identities are optional because some
// sets (e.g. circlet-only sets) do not have all five kinds.
type Artifact struct {
	Key       int            `json:"_id"`
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	MinRarity int            `json:"min_rarity,omitempty"`
	MaxRarity int            `json:"max_rarity"`
	TwoPc     string         `json:"two_pc,omitempty"`
	FourPc    string         `json:"four_pc,omitempty"`
	Flower    *ArtifactPiece `json:"flower,omitempty"`
	Plume     *ArtifactPiece `json:"plume,omitempty"`
	Sands     *ArtifactPiece `json:"sands,omitempty"`
	Goblet    *ArtifactPiece `json:"goblet,omitempty"`
	Circlet   *ArtifactPiece `json:"circlet,omitempty"`
}

// Piece returns the set's identity for the given slot kind, or nil.
func (a *Artifact) Piece(kind SlotKind) *ArtifactPiece {
	if a == nil {
		return nil
	}
	switch kind {
	case SlotFlower:
		return a.Flower
	case SlotPlume:
		return a.Plume
	case SlotSands:
		return a.Sands
	case SlotGoblet:
		return a.Goblet
	case SlotCirclet:
		return a.Circlet
	}
	return nil
}

// SetMembership maps 4-digit piece id prefixes to a set short code.
type SetMembership struct {
	IDs []string `json:"ids"`
	Set string   `json:"set"`
}

type Player struct {
	ID                   string    `json:"-"`
	UUID                 string    `json:"uuid"`
	Nickname             string    `json:"nickname"`
	Level                int       `json:"level"`
	Signature            string    `json:"signature"`
	WorldLevel           int       `json:"worldLevel"`
	FinishAchievementNum int       `json:"finishAchievementNum"`
	ProfilePictureID     int       `json:"profilePictureId"`
	ProfileCostumeID     int       `json:"profileCostumeId"`
	NamecardID           int       `json:"namecardId"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
