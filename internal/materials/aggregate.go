package materials

import (
	"errors"
	"fmt"
	"sort"

	"github.com/qluke/genshin-builds/internal/domain"
)

const (
	DefaultAscensionMin = 1
	DefaultAscensionMax = 6
	DefaultTalentMin    = 1
	DefaultTalentMax    = 10
)

// Type labels by slot position.
var (
	ascensionTypes = [4]string{
		"jewels_materials",
		"elemental_stone_materials",
		"local_materials",
		"common_materials",
	}
	talentTypes = [4]string{
		"talent_lvl_up_materials",
		"common_materials",
		"talent_lvl_up_materials",
		"talent_lvl_up_materials",
	}
)

// AscensionTotals sums the cost and materials of the steps whose ascension
// tier lies in [from, to]. An empty range (from == to) costs nothing.
func AscensionTotals(steps []domain.AscensionStep, from, to int) domain.AggregateResult {
	res := domain.AggregateResult{Items: []domain.MaterialTotal{}}
	if from == to {
		return res
	}
	for _, step := range steps {
		if step.Ascension < from || step.Ascension > to {
			continue
		}
		res.Cost += step.Cost

		cur := make([]domain.MaterialTotal, 0, 4)
		cur = appendTagged(cur, step.Mat1, ascensionTypes[0], 0)
		if step.Mat2 != nil {
			cur = appendTagged(cur, *step.Mat2, ascensionTypes[1], 1)
		}
		cur = appendTagged(cur, step.Mat3, ascensionTypes[2], 2)
		cur = appendTagged(cur, step.Mat4, ascensionTypes[3], 3)
		res.Items = fold(cur, res.Items)
	}
	return res
}

// TalentTotals sums the cost and materials of the talent levels in
// [from, to]. Unlike AscensionTotals there is no empty-range shortcut: a
// single-level range still counts that level.
func TalentTotals(levels []domain.TalentLevel, from, to int) domain.AggregateResult {
	res := domain.AggregateResult{Items: []domain.MaterialTotal{}}
	for _, lvl := range levels {
		if lvl.Level < from || lvl.Level > to {
			continue
		}
		res.Cost += lvl.Cost

		cur := make([]domain.MaterialTotal, 0, len(lvl.Items))
		for i, m := range lvl.Items {
			typ := ""
			if i < len(talentTypes) {
				typ = talentTypes[i]
			}
			cur = append(cur, tag(m, typ, i))
		}
		res.Items = fold(cur, res.Items)
	}
	return res
}

func tag(m domain.Material, typ string, index int) domain.MaterialTotal {
	return domain.MaterialTotal{
		ID:     m.ID,
		Name:   m.Name,
		Amount: m.Amount,
		Rarity: m.Rarity,
		Type:   typ,
		Index:  index,
	}
}

// appendTagged skips materials without an id.
func appendTagged(dst []domain.MaterialTotal, m domain.Material, typ string, index int) []domain.MaterialTotal {
	if m.ID == "" {
		return dst
	}
	return append(dst, tag(m, typ, index))
}

// fold merges the current step's items ahead of the running totals,
// deduplicating by id. The first occurrence keeps its name, type, rarity and
// index; amounts are summed. The result is stably ordered by index, then
// rarity.
func fold(cur, acc []domain.MaterialTotal) []domain.MaterialTotal {
	out := make([]domain.MaterialTotal, 0, len(cur)+len(acc))
	pos := make(map[string]int, len(cur)+len(acc))
	add := func(items []domain.MaterialTotal) {
		for _, it := range items {
			if i, ok := pos[it.ID]; ok {
				out[i].Amount += it.Amount
				continue
			}
			pos[it.ID] = len(out)
			out = append(out, it)
		}
	}
	add(cur)
	add(acc)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Rarity < out[j].Rarity
	})
	return out
}

// ErrInvalidRange is returned by Range.Validate.
var ErrInvalidRange = errors.New("invalid range")

// Range bounds for a character's ascension and talent totals.
type Range struct {
	AscensionMin int
	AscensionMax int
	TalentMin    int
	TalentMax    int
}

func DefaultRange() Range {
	return Range{
		AscensionMin: DefaultAscensionMin,
		AscensionMax: DefaultAscensionMax,
		TalentMin:    DefaultTalentMin,
		TalentMax:    DefaultTalentMax,
	}
}

func (r Range) Validate() error {
	if r.AscensionMin < 0 || r.AscensionMax > DefaultAscensionMax || r.AscensionMin > r.AscensionMax {
		return fmt.Errorf("%w: ascension %d..%d (expected 0 <= min <= max <= %d)", ErrInvalidRange, r.AscensionMin, r.AscensionMax, DefaultAscensionMax)
	}
	if r.TalentMin < DefaultTalentMin || r.TalentMax > DefaultTalentMax || r.TalentMin > r.TalentMax {
		return fmt.Errorf("%w: talent %d..%d (expected %d <= min <= max <= %d)", ErrInvalidRange, r.TalentMin, r.TalentMax, DefaultTalentMin, DefaultTalentMax)
	}
	return nil
}

// CharacterTotals is the pair of totals shown on a character's material
// calculator.
type CharacterTotals struct {
	Ascension domain.AggregateResult `json:"ascension"`
	Talents   domain.AggregateResult `json:"talents"`
}

func ForCharacter(ch *domain.Character, r Range) CharacterTotals {
	return CharacterTotals{
		Ascension: AscensionTotals(ch.Ascension, r.AscensionMin, r.AscensionMax),
		Talents:   TalentTotals(ch.TalentMaterials, r.TalentMin, r.TalentMax),
	}
}
