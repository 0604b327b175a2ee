package engine

import (
	"fmt"

	"github.com/tatianab/dark-path/internal/catalog"
	"github.com/tatianab/dark-path/internal/models"
)

// Check is the outcome of a single skill check: a d20 plus the skill's
// proficiency against a difficulty.
type Check struct {
	Skill       models.Skill `yaml:"skill"`
	Die         int          `yaml:"die"`
	Proficiency int          `yaml:"proficiency"`
	Roll        int          `yaml:"roll"`
	Difficulty  int          `yaml:"difficulty"`
	Success     bool         `yaml:"success"`
}

// NewCheck scores a d20 result against difficulty.
func NewCheck(die int, skills models.SkillSet, skill models.Skill, difficulty int) Check {
	prof := skills.Proficiency(skill)
	roll := die + prof
	return Check{
		Skill:       skill,
		Die:         die,
		Proficiency: prof,
		Roll:        roll,
		Difficulty:  difficulty,
		Success:     roll >= difficulty,
	}
}

// String renders the check the way it is shown during the pause.
func (c Check) String() string {
	verdict := "FAILURE..."
	if c.Success {
		verdict = "SUCCESS!"
	}
	return fmt.Sprintf("Skill Check - %s: %d vs %d\n%s", c.Skill.DisplayName(), c.Roll, c.Difficulty, verdict)
}

// Resolution is what a chosen option did to the player.
type Resolution struct {
	Check     Check
	Applied   models.Delta
	Stats     models.Stats
	Narrative string
}

// Resolve scales the option's deltas by the check result and applies them.
// Success halves every delta and failure multiplies it by 1.5, whatever its
// sign, so bonuses shrink on success just as penalties do.
func Resolve(stats models.Stats, opt catalog.Option, check Check) Resolution {
	applied := opt.Delta.Amplify()
	verdict := "Failure!"
	if check.Success {
		applied = opt.Delta.Halve()
		verdict = "Success!"
	}
	return Resolution{
		Check:     check,
		Applied:   applied,
		Stats:     stats.Modify(applied),
		Narrative: verdict + " " + opt.Label,
	}
}
