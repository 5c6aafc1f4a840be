package builds

import (
	"github.com/qluke/genshin-builds/internal/catalog"
	"github.com/qluke/genshin-builds/internal/domain"
)

// DecodeBuilds decodes each record against the catalog. The result is
// parallel to records; an entry is nil when its character is not in the
// catalog. Field-level problems are reported in DecodedBuild.Faults.
func DecodeBuilds(records []domain.RawBuildRecord, cat *catalog.Catalog) []*domain.DecodedBuild {
	out := make([]*domain.DecodedBuild, len(records))
	for i, r := range records {
		out[i] = DecodeBuild(r, cat)
	}
	return out
}

// DecodeBuild decodes a single record, returning nil when its character is
// unknown.
func DecodeBuild(r domain.RawBuildRecord, cat *catalog.Catalog) *domain.DecodedBuild {
	ch, ok := cat.CharacterByKey(r.AvatarID)
	if !ok {
		return nil
	}

	d := decoder{cat: cat, b: &domain.DecodedBuild{
		AvatarID:      r.AvatarID,
		ID:            ch.ID,
		Name:          ch.Name,
		Rarity:        ch.Rarity,
		Level:         r.Level,
		Ascension:     r.Ascension,
		Constellation: r.Constellation,
		FetterLevel:   r.FetterLevel,
		Build:         r,
	}}
	d.b.Stats = d.stats("fightProps", r.FightProps)

	slotSets := make([]*domain.Artifact, 0, len(domain.Slots))
	for _, kind := range domain.Slots {
		slotSets = append(slotSets, d.slot(r.Slot(kind)))
	}
	d.b.Sets = DeduceSets(slotSets)

	d.b.Weapon = domain.BuildWeapon{
		WeaponID:     r.WeaponID,
		Level:        r.WeaponLevel,
		PromoteLevel: r.WeaponPromoteLevel,
		Refinement:   r.WeaponRefinement,
		Stat:         d.stats("weaponStat", r.WeaponStat),
	}
	if w, ok := cat.WeaponByKey(r.WeaponID); ok {
		d.b.Weapon.ID = w.ID
		d.b.Weapon.Name = w.Name
		d.b.Weapon.Rarity = w.Rarity
	}

	return d.b
}

type decoder struct {
	cat *catalog.Catalog
	b   *domain.DecodedBuild
}

// slot fills the build's slot and returns the resolved set, which is nil
// when the piece id has no membership entry or the set is not cataloged.
func (d *decoder) slot(raw domain.RawSlot) *domain.Artifact {
	field := string(raw.Kind)
	slot := d.b.Slot(raw.Kind)
	*slot = domain.BuildSlot{
		ArtifactID:  raw.PieceID,
		MainStat:    d.stats(field+"MainStat", raw.MainStat),
		SubStats:    d.subStats(field+"SubStats", raw.SubStats),
		SubStatsIDs: raw.SubstatsIDs,
	}

	set, ok := d.cat.SetForPiece(raw.PieceID)
	if !ok {
		return nil
	}
	slot.SetID = set.ID
	slot.Rarity = set.MaxRarity
	if piece := set.Piece(raw.Kind); piece != nil {
		slot.ID = piece.ID
		slot.Name = piece.Name
	}
	return set
}

func (d *decoder) stats(field, s string) map[string]float64 {
	m, err := ParseStatBlock(s)
	if err != nil {
		d.b.Faults = append(d.b.Faults, domain.FieldFault{Field: field, Err: err})
	}
	return m
}

func (d *decoder) subStats(field, s string) map[string]domain.SubStat {
	m, err := ParseSubStats(s)
	if err != nil {
		d.b.Faults = append(d.b.Faults, domain.FieldFault{Field: field, Err: err})
	}
	return m
}
