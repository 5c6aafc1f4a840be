package builds

import "github.com/qluke/genshin-builds/internal/domain"

// goodStatKeys maps FIGHT_PROP_* identifiers to GOOD-format stat keys.
var goodStatKeys = map[string]string{
	"FIGHT_PROP_HP":                "hp",
	"FIGHT_PROP_HP_PERCENT":        "hp_",
	"FIGHT_PROP_ATTACK":            "atk",
	"FIGHT_PROP_ATTACK_PERCENT":    "atk_",
	"FIGHT_PROP_DEFENSE":           "def",
	"FIGHT_PROP_DEFENSE_PERCENT":   "def_",
	"FIGHT_PROP_CHARGE_EFFICIENCY": "enerRech_",
	"FIGHT_PROP_ELEMENT_MASTERY":   "eleMas",
	"FIGHT_PROP_CRITICAL":          "critRate_",
	"FIGHT_PROP_CRITICAL_HURT":     "critDMG_",
	"FIGHT_PROP_HEAL_ADD":          "heal_",
	"FIGHT_PROP_PHYSICAL_ADD_HURT": "physical_dmg_",
}

// elementDmgProps maps the X in FIGHT_PROP_X_ADD_HURT to its element.
var elementDmgProps = map[string]string{
	"FIRE":  "pyro",
	"ELEC":  "electro",
	"ICE":   "cryo",
	"WATER": "hydro",
	"WIND":  "anemo",
	"ROCK":  "geo",
	"GRASS": "dendro",
}

func init() {
	for prop, elem := range elementDmgProps {
		goodStatKeys["FIGHT_PROP_"+prop+"_ADD_HURT"] = elem + "_dmg_"
	}
}

// NormalizeStatKey returns the short stat key used across the site for a
// FIGHT_PROP_* identifier. Keys that are already short, or unknown, are
// returned unchanged.
func NormalizeStatKey(key string) string {
	if k, ok := goodStatKeys[key]; ok {
		return k
	}
	return key
}

// CritValue is 2 x crit rate + crit damage over all artifact sub-stats, in
// the units the sub-stats are stored in.
func CritValue(b *domain.DecodedBuild) float64 {
	if b == nil {
		return 0
	}
	var rate, dmg float64
	for _, kind := range domain.Slots {
		for k, s := range b.Slot(kind).SubStats {
			switch NormalizeStatKey(k) {
			case "critRate_":
				rate += s.Value
			case "critDMG_":
				dmg += s.Value
			}
		}
	}
	return 2*rate + dmg
}
