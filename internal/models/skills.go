package models

import (
	"math/rand/v2"
	"maps"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tatianab/dark-path/internal/dice"
)

// Skill is one of the six fixed proficiencies.
type Skill string

const (
	SkillOccultism  Skill = "occultism"
	SkillCombat     Skill = "combat"
	SkillPersuasion Skill = "persuasion"
	SkillSurvival   Skill = "survival"
	SkillLore       Skill = "lore"
	SkillWillpower  Skill = "willpower"
)

// Skills lists every skill in display order.
var Skills = []Skill{
	SkillOccultism,
	SkillCombat,
	SkillPersuasion,
	SkillSurvival,
	SkillLore,
	SkillWillpower,
}

var skillDescriptions = map[Skill]string{
	SkillOccultism:  "Knowledge of forbidden arts",
	SkillCombat:     "Martial prowess",
	SkillPersuasion: "Social influence",
	SkillSurvival:   "Adaptability in harsh conditions",
	SkillLore:       "Ancient knowledge",
	SkillWillpower:  "Mental fortitude",
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the skill name as shown to the player, e.g. "Occultism".
func (s Skill) DisplayName() string {
	return titleCaser.String(string(s))
}

// Description returns the one-line flavor text for the skill.
func (s Skill) Description() string {
	return skillDescriptions[s]
}

// Valid reports whether s is one of the six skills.
func (s Skill) Valid() bool {
	_, ok := skillDescriptions[s]
	return ok
}

// MaxProficiency is the highest value a generated proficiency can reach (4d6).
const MaxProficiency = 24

// SkillSet maps each skill to its proficiency. It never changes after
// GenerateSkills.
type SkillSet struct {
	Primary   Skill
	Secondary Skill
	values    map[Skill]int
}

// GenerateSkills picks two distinct skills as primary and secondary and rolls
// 4d6 for the primary, 3d6 for the secondary and 2d6 for the rest.
func GenerateSkills(rng *rand.Rand) SkillSet {
	order := rng.Perm(len(Skills))
	set := SkillSet{
		Primary:   Skills[order[0]],
		Secondary: Skills[order[1]],
		values:    make(map[Skill]int, len(Skills)),
	}
	for _, skill := range Skills {
		switch skill {
		case set.Primary:
			set.values[skill] = dice.Sum(rng, 4)
		case set.Secondary:
			set.values[skill] = dice.Sum(rng, 3)
		default:
			set.values[skill] = dice.Sum(rng, 2)
		}
	}
	return set
}

// NewSkillSet builds a SkillSet with fixed proficiencies. Skills missing from
// values have proficiency zero.
func NewSkillSet(values map[Skill]int) SkillSet {
	return SkillSet{values: maps.Clone(values)}
}

// Proficiency returns the proficiency for skill.
func (s SkillSet) Proficiency(skill Skill) int {
	return s.values[skill]
}

// Proficiencies returns a copy of all proficiencies keyed by skill.
func (s SkillSet) Proficiencies() map[Skill]int {
	return maps.Clone(s.values)
}
