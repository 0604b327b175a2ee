package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tatianab/dark-path/internal/catalog"
	"github.com/tatianab/dark-path/internal/dice"
	"github.com/tatianab/dark-path/internal/models"
)

// Milestones, in completed encounters.
const (
	WitchMilestone  = 5
	PriestMilestone = 10
	EndingMilestone = 20
)

// CheckPause is how long the caller shows a skill check before accepting
// more input.
const CheckPause = 1500 * time.Millisecond

// RuinsBonus is granted once, when the last ruin trial is completed.
var RuinsBonus = models.Delta{Health: 20, Sanity: 20, Corruption: 30}

const (
	deathText       = "ENDING: Death claims another soul..."
	madnessText     = "ENDING: Your mind shatters into countless pieces..."
	consumedText    = "ENDING: The darkness consumes you completely..."
	ruinsClearText  = "You have conquered the ancient ruins!"
	quitText        = "You turn your back on Ravencross. The darkness will wait."
	introTextFormat = "Welcome to the Dark Path...\n\n" +
		"You arrive at the village of Ravencross on a %s night.\n" +
		"The %s moon hangs above, and the villagers seem %s."
)

func introText(w models.World) string {
	return fmt.Sprintf(introTextFormat, w.Weather, w.MoonPhase, w.VillageMood)
}

// GameOver reports whether stats are terminal and, if so, the closing text.
// Health is checked before sanity, and sanity before corruption.
func GameOver(s models.Stats) (string, bool) {
	switch {
	case s.Health <= models.MinStat:
		return deathText, true
	case s.Sanity <= models.MinStat:
		return madnessText, true
	case s.Corruption >= models.MaxStat:
		return consumedText, true
	}
	return "", false
}

// EndingCategory picks the ending the player has earned: the ruins first,
// then a deep curse, then madness, and redemption otherwise.
func EndingCategory(state models.GameState) catalog.Category {
	switch {
	case state.RuinsCleared():
		return catalog.CategoryAncientPower
	case state.Flags.Has(models.FlagCursedByWitch) && state.Stats.Corruption >= 75:
		return catalog.CategoryCurse
	case state.Stats.Sanity <= 25:
		return catalog.CategoryMadness
	}
	return catalog.CategoryRedemption
}

// nextEncounter applies the milestones before falling back to the random
// tables. The returned category is only meaningful for ending encounters.
func (s Session) nextEncounter(rng *rand.Rand) (catalog.Encounter, catalog.Category) {
	st := s.state
	switch {
	case st.EncountersCompleted >= EndingMilestone:
		cat := EndingCategory(st)
		return s.catalog.Ending(cat).Render(st.World), cat
	case st.EncountersCompleted == WitchMilestone && !st.Flags.Has(models.FlagEncounteredWitch):
		return s.catalog.Special(catalog.KindWitch).Render(st.World), ""
	case st.EncountersCompleted == PriestMilestone && st.Flags.Has(models.FlagPriestAlive):
		return s.catalog.Special(catalog.KindPriest).Render(st.World), ""
	}
	return s.catalog.Next(st, rng), ""
}

func (s Session) advance() (Session, Outcome) {
	src := dice.NewRand(s.rng)
	enc, cat := s.nextEncounter(src.Rand())
	s.rng = src.State()

	s.encounter = enc
	if enc.Kind == catalog.KindEnding {
		s.category = cat
	}
	if enc.Discovers != "" {
		s.state = s.state.Discover(enc.Discovers)
	}
	s.phase = PhaseEncounter
	s.text = enc.Description
	return s, s.outcome()
}

func (s Session) choose(opt catalog.Option) (Session, Outcome) {
	src := dice.NewRand(s.rng)
	enc := s.encounter
	check := NewCheck(s.roll(src.Rand()), s.state.Skills, enc.Skill, enc.Difficulty)
	s.rng = src.State()

	res := Resolve(s.state.Stats, opt, check)
	st := s.state
	st.Stats = res.Stats
	trial := enc.Kind == catalog.KindTrial && st.RuinsOpen()
	st.Flags = enc.ApplyFlags(st.Flags, opt)

	narrative := res.Narrative
	if trial {
		ruins, _ := st.Location(models.LocationAncientRuins)
		ruins.TrialsCompleted++
		if ruins.TrialsCompleted >= ruins.RequiredTrials {
			ruins.Cleared = true
			st.Stats = st.Stats.Modify(RuinsBonus)
			narrative += "\n" + ruinsClearText
		}
		st = st.WithLocation(ruins)
	}

	record := models.TurnRecord{
		Turn:       st.EncountersCompleted + 1,
		Encounter:  enc.ID,
		Option:     opt.Key,
		Label:      opt.Label,
		Skill:      check.Skill,
		Roll:       check.Roll,
		Difficulty: check.Difficulty,
		Success:    check.Success,
		Narrative:  narrative,
		Stats:      st.Stats,
	}

	// The ending encounter always closes on its ending text, whatever its
	// deltas did to the stats.
	s.encounter = catalog.Encounter{}
	if enc.Kind == catalog.KindEnding {
		s.phase = PhaseEnding
		s.text = s.catalog.EndingText(s.category, check.Success, opt.Key)
	} else if msg, over := GameOver(st.Stats); over {
		s.phase = PhaseGameOver
		s.text = msg
	} else {
		st.EncountersCompleted++
		s.phase = PhaseResult
		s.text = narrative
	}
	s.state = st

	out := s.outcome()
	out.Check = &check
	out.Pause = CheckPause
	out.Turn = &record
	return s, out
}
