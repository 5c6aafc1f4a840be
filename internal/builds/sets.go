package builds

import "github.com/qluke/genshin-builds/internal/domain"

// minSetPieces is the smallest piece count that grants a set bonus.
const minSetPieces = 2

// DeduceSets returns the sets equipped on at least two slots, once each, in
// order of first appearance. Nil entries are slots with an unknown set and
// are ignored.
func DeduceSets(slotSets []*domain.Artifact) []domain.Artifact {
	counts := make(map[string]int, len(slotSets))
	for _, s := range slotSets {
		if s == nil {
			continue
		}
		counts[s.ID]++
	}

	out := []domain.Artifact{}
	seen := make(map[string]bool, len(counts))
	for _, s := range slotSets {
		if s == nil || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		if counts[s.ID] >= minSetPieces {
			out = append(out, *s)
		}
	}
	return out
}

// SetPieceCounts reports how many slots each resolved set occupies.
func SetPieceCounts(b *domain.DecodedBuild) map[string]int {
	counts := map[string]int{}
	for _, kind := range domain.Slots {
		if id := b.Slot(kind).SetID; id != "" {
			counts[id]++
		}
	}
	return counts
}
