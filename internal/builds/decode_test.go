package builds_test

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"

	"github.com/qluke/genshin-builds/internal/builds"
	"github.com/qluke/genshin-builds/internal/catalog"
	"github.com/qluke/genshin-builds/internal/domain"
)

func testCatalog() *catalog.Catalog {
	chars := []domain.Character{
		{Key: 10000002, ID: "kamisato_ayaka", Name: "Kamisato Ayaka", Rarity: 5},
		{Key: 10000031, ID: "fischl", Name: "Fischl", Rarity: 4},
	}
	weapons := []domain.Weapon{
		{Key: 11509, ID: "mistsplitter_reforged", Name: "Mistsplitter Reforged", Rarity: 5},
	}
	artifacts := []domain.Artifact{
		{
			Key: 215001, ID: "gladiators_finale", Name: "Gladiator's Finale", MaxRarity: 5,
			Flower:  &domain.ArtifactPiece{ID: "gladiators_nostalgia", Name: "Gladiator's Nostalgia"},
			Plume:   &domain.ArtifactPiece{ID: "gladiators_destiny", Name: "Gladiator's Destiny"},
			Sands:   &domain.ArtifactPiece{ID: "gladiators_longing", Name: "Gladiator's Longing"},
			Goblet:  &domain.ArtifactPiece{ID: "gladiators_intoxication", Name: "Gladiator's Intoxication"},
			Circlet: &domain.ArtifactPiece{ID: "gladiators_triumphus", Name: "Gladiator's Triumphus"},
		},
		{
			Key: 215002, ID: "wanderers_troupe", Name: "Wanderer's Troupe", MaxRarity: 5,
			Flower: &domain.ArtifactPiece{ID: "troupes_dawnlight", Name: "Troupe's Dawnlight"},
			Sands:  &domain.ArtifactPiece{ID: "concerts_final_hour", Name: "Concert's Final Hour"},
		},
		{
			Key: 214001, ID: "prayers_for_wisdom", Name: "Prayers for Wisdom", MaxRarity: 4,
			Circlet: &domain.ArtifactPiece{ID: "tiara_of_thunder", Name: "Tiara of Thunder"},
		},
	}
	membership := []domain.SetMembership{
		{IDs: []string{"1500", "1501"}, Set: "15001"},
		{IDs: []string{"1502"}, Set: "15002"},
		{IDs: []string{"1400"}, Set: "14001"},
	}
	return catalog.New(chars, weapons, artifacts, membership)
}

func gladiatorRecord() domain.RawBuildRecord {
	return domain.RawBuildRecord{
		ID:                 1,
		AvatarID:           10000002,
		Level:              90,
		Ascension:          6,
		Constellation:      1,
		FetterLevel:        10,
		FightProps:         "2000|15000,20|0.65,22|1.8",
		FlowerID:           150034,
		FlowerMainStat:     "FIGHT_PROP_HP|4780",
		FlowerSubStats:     "FIGHT_PROP_CRITICAL|7.8/2,FIGHT_PROP_CRITICAL_HURT|14/2",
		FlowerSubstatsID:   "501204,501224",
		PlumeID:            150124,
		PlumeMainStat:      "FIGHT_PROP_ATTACK|311",
		PlumeSubStats:      "FIGHT_PROP_CRITICAL_HURT|21.8/3",
		SandsID:            150044,
		SandsMainStat:      "FIGHT_PROP_ATTACK_PERCENT|46.6",
		SandsSubStats:      "FIGHT_PROP_CRITICAL|3.1/1",
		GobletID:           150114,
		GobletMainStat:     "FIGHT_PROP_ICE_ADD_HURT|46.6",
		CircletID:          140054,
		CircletMainStat:    "FIGHT_PROP_CRITICAL_HURT|62.2",
		WeaponID:           11509,
		WeaponLevel:        90,
		WeaponPromoteLevel: 6,
		WeaponRefinement:   1,
		WeaponStat:         "FIGHT_PROP_BASE_ATTACK|674,FIGHT_PROP_CRITICAL_HURT|44.1",
	}
}

func TestDecodeBuilds_UnknownCharacterIsNil(t *testing.T) {
	cat := testCatalog()
	good := gladiatorRecord()
	bad := gladiatorRecord()
	bad.AvatarID = 99999999

	got := builds.DecodeBuilds([]domain.RawBuildRecord{good, bad, good}, cat)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[1] != nil {
		t.Fatalf("expected nil for unknown character, got %#v", got[1])
	}
	if got[0] == nil || got[2] == nil {
		t.Fatalf("expected siblings to decode, got %#v", got)
	}
	if got[0].Name != "Kamisato Ayaka" || got[0].ID != "kamisato_ayaka" || got[0].Rarity != 5 {
		t.Fatalf("unexpected character summary: %+v", got[0])
	}
}

func TestDecodeBuild_Fields(t *testing.T) {
	b := builds.DecodeBuild(gladiatorRecord(), testCatalog())
	if b == nil {
		t.Fatalf("expected build")
	}
	if len(b.Faults) != 0 {
		t.Fatalf("unexpected faults: %v", b.Faults)
	}
	if b.Level != 90 || b.Ascension != 6 || b.Constellation != 1 || b.FetterLevel != 10 {
		t.Fatalf("unexpected numeric fields: %+v", b)
	}
	if b.Stats["2000"] != 15000 || b.Stats["22"] != 1.8 {
		t.Fatalf("unexpected stats: %#v", b.Stats)
	}

	if b.Flower.ID != "gladiators_nostalgia" || b.Flower.Name != "Gladiator's Nostalgia" {
		t.Fatalf("expected flower piece identity, got %+v", b.Flower)
	}
	if b.Flower.ArtifactID != 150034 || b.Flower.Rarity != 5 || b.Flower.SetID != "gladiators_finale" {
		t.Fatalf("unexpected flower slot: %+v", b.Flower)
	}
	if b.Flower.SubStatsIDs != "501204,501224" {
		t.Fatalf("unexpected substat ids: %q", b.Flower.SubStatsIDs)
	}
	if got := b.Flower.SubStats["FIGHT_PROP_CRITICAL"]; got.Value != 7.8 || got.Count != 2 {
		t.Fatalf("unexpected flower substat: %+v", got)
	}
	if b.Circlet.ID != "tiara_of_thunder" || b.Circlet.Rarity != 4 {
		t.Fatalf("unexpected circlet slot: %+v", b.Circlet)
	}

	// Gladiator occupies flower, plume, sands, goblet.
	if len(b.Sets) != 1 || b.Sets[0].ID != "gladiators_finale" {
		t.Fatalf("expected [gladiators_finale], got %#v", b.Sets)
	}

	if b.Weapon.ID != "mistsplitter_reforged" || b.Weapon.Rarity != 5 || b.Weapon.Refinement != 1 {
		t.Fatalf("unexpected weapon: %+v", b.Weapon)
	}
	if b.Weapon.Stat["FIGHT_PROP_BASE_ATTACK"] != 674 {
		t.Fatalf("unexpected weapon stat: %#v", b.Weapon.Stat)
	}
	if b.Build.ID != 1 {
		t.Fatalf("expected raw record to be carried, got %+v", b.Build)
	}
}

func TestDecodeBuild_UnknownWeaponIsPartial(t *testing.T) {
	r := gladiatorRecord()
	r.WeaponID = 424242
	b := builds.DecodeBuild(r, testCatalog())
	if b == nil {
		t.Fatalf("expected build")
	}
	if b.Weapon.WeaponID != 424242 || b.Weapon.ID != "" || b.Weapon.Name != "" {
		t.Fatalf("expected weapon without catalog fields, got %+v", b.Weapon)
	}
	if b.Weapon.Level != 90 || b.Weapon.Stat["FIGHT_PROP_BASE_ATTACK"] != 674 {
		t.Fatalf("expected raw weapon fields to be kept, got %+v", b.Weapon)
	}
}

func TestDecodeBuild_UnresolvedSlotSet(t *testing.T) {
	r := gladiatorRecord()
	r.PlumeID = 990011 // prefix 9900 has no membership entry

	b := builds.DecodeBuild(r, testCatalog())
	if b == nil {
		t.Fatalf("expected build")
	}
	if b.Plume.SetID != "" || b.Plume.ID != "" || b.Plume.Rarity != 0 {
		t.Fatalf("expected plume without set, got %+v", b.Plume)
	}
	if b.Plume.MainStat["FIGHT_PROP_ATTACK"] != 311 {
		t.Fatalf("expected plume stats to be decoded, got %#v", b.Plume.MainStat)
	}
	// Flower, sands and goblet still share gladiator.
	if len(b.Sets) != 1 || b.Sets[0].ID != "gladiators_finale" {
		t.Fatalf("expected [gladiators_finale], got %#v", b.Sets)
	}
}

func TestDecodeBuild_MissingPieceIdentity(t *testing.T) {
	r := gladiatorRecord()
	r.PlumeID = 150299 // wanderer's troupe has no plume entry

	b := builds.DecodeBuild(r, testCatalog())
	if b.Plume.SetID != "wanderers_troupe" {
		t.Fatalf("expected plume set wanderers_troupe, got %+v", b.Plume)
	}
	if b.Plume.ID != "" || b.Plume.Name != "" {
		t.Fatalf("expected empty piece identity, got %+v", b.Plume)
	}
}

func TestDecodeBuild_MalformedFieldIsIsolated(t *testing.T) {
	r := gladiatorRecord()
	r.SandsSubStats = "FIGHT_PROP_CRITICAL|3.1,FIGHT_PROP_ATTACK|19/1"
	r.FightProps = "2000|15000,garbage"

	b := builds.DecodeBuild(r, testCatalog())
	if b == nil {
		t.Fatalf("expected build")
	}
	if len(b.Faults) != 2 {
		t.Fatalf("expected 2 faults, got %v", b.Faults)
	}
	if b.Faults[0].Field != "fightProps" || b.Faults[1].Field != "sandsSubStats" {
		t.Fatalf("unexpected fault fields: %v", b.Faults)
	}
	for _, f := range b.Faults {
		if !errors.Is(f, builds.ErrMalformedToken) {
			t.Fatalf("expected ErrMalformedToken, got %v", f)
		}
	}
	if b.Stats["2000"] != 15000 {
		t.Fatalf("expected well-formed stat tokens to survive, got %#v", b.Stats)
	}
	if got := b.Sands.SubStats["FIGHT_PROP_ATTACK"]; got.Value != 19 || got.Count != 1 {
		t.Fatalf("expected well-formed substat to survive, got %#v", b.Sands.SubStats)
	}
	if len(b.Sets) != 1 {
		t.Fatalf("expected sets to be unaffected, got %#v", b.Sets)
	}
}

func TestDecodeBuild_NonFiniteValuesAreFaults(t *testing.T) {
	r := gladiatorRecord()
	r.FightProps = "2000|15000,20|NaN"
	r.FlowerSubStats = "FIGHT_PROP_CRITICAL|Inf/2,FIGHT_PROP_CRITICAL_HURT|14/2"
	r.PlumeSubStats = "FIGHT_PROP_CRITICAL_HURT|-Infinity/3"

	decoded := builds.DecodeBuilds([]domain.RawBuildRecord{r, gladiatorRecord()}, testCatalog())
	b := decoded[0]
	if b == nil || len(b.Faults) != 3 {
		t.Fatalf("expected 3 faults, got %+v", b)
	}
	for _, f := range b.Faults {
		if !errors.Is(f, builds.ErrMalformedToken) {
			t.Fatalf("expected ErrMalformedToken, got %v", f)
		}
	}
	if _, ok := b.Stats["20"]; ok || b.Stats["2000"] != 15000 {
		t.Fatalf("unexpected stats %#v", b.Stats)
	}
	if len(decoded[1].Faults) != 0 {
		t.Fatalf("expected clean build to stay clean, got %v", decoded[1].Faults)
	}
	if _, err := json.Marshal(decoded); err != nil {
		t.Fatalf("expected batch to encode, got %v", err)
	}
}

func TestCritValue(t *testing.T) {
	b := builds.DecodeBuild(gladiatorRecord(), testCatalog())
	// rate 7.8+3.1, dmg 14+21.8
	want := 2*(7.8+3.1) + 14 + 21.8
	if got := builds.CritValue(b); got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := builds.CritValue(nil); got != 0 {
		t.Fatalf("expected 0 for nil build, got %v", got)
	}
}
