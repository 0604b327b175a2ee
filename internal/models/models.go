package models

import (
	"math/rand/v2"
	"slices"
)

// Location ids.
const (
	LocationAncientRuins   = "ancient_ruins"
	LocationWitchHut       = "witch_hut"
	LocationForbiddenGrove = "forbidden_grove"
)

var (
	weathers     = []string{"stormy", "misty", "clear but dark"}
	moonPhases   = []string{"new", "waxing", "full", "waning"}
	villageMoods = []string{"fearful", "hostile", "desperate"}
)

// World holds the cosmetic flavor rolled once per session.
type World struct {
	Weather     string `yaml:"weather"`
	MoonPhase   string `yaml:"moon_phase"`
	VillageMood string `yaml:"village_mood"`
}

// NewWorld picks the weather, moon phase and village disposition.
func NewWorld(rng *rand.Rand) World {
	return World{
		Weather:     weathers[rng.IntN(len(weathers))],
		MoonPhase:   moonPhases[rng.IntN(len(moonPhases))],
		VillageMood: villageMoods[rng.IntN(len(villageMoods))],
	}
}

// Location is a named place that can be discovered and, if it has trials,
// cleared.
type Location struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Discovered      bool   `yaml:"discovered"`
	Cleared         bool   `yaml:"cleared"`
	RequiredTrials  int    `yaml:"required_trials"`
	TrialsCompleted int    `yaml:"trials_completed"`
}

// DefaultLocations returns the locations of Ravencross in their starting state.
func DefaultLocations() []Location {
	return []Location{
		{
			ID:             LocationAncientRuins,
			Name:           "Ancient Ruins",
			Description:    "A crumbling structure emanating dark energy",
			RequiredTrials: 3,
		},
		{
			ID:          LocationWitchHut,
			Name:        "Witch's Hut",
			Description: "A crooked cottage deep in the woods",
		},
		{
			ID:          LocationForbiddenGrove,
			Name:        "Forbidden Grove",
			Description: "A twisted grove where the trees whisper",
		},
	}
}

// IsLocation reports whether id names one of the default locations.
func IsLocation(id string) bool {
	return slices.ContainsFunc(DefaultLocations(), func(l Location) bool { return l.ID == id })
}

// GameState is everything about a session that encounters can read or change.
// It is a value: mutators return a modified copy and leave the receiver alone.
type GameState struct {
	Stats               Stats      `yaml:"stats"`
	Skills              SkillSet   `yaml:"-"`
	Flags               Flags      `yaml:"-"`
	Locations           []Location `yaml:"locations"`
	World               World      `yaml:"world"`
	EncountersCompleted int        `yaml:"encounters_completed"`
}

// NewGameState rolls a fresh character and world.
func NewGameState(rng *rand.Rand) GameState {
	return GameState{
		Stats:     NewStats(),
		Skills:    GenerateSkills(rng),
		Flags:     DefaultFlags(),
		Locations: DefaultLocations(),
		World:     NewWorld(rng),
	}
}

// Location looks up a location by id.
func (g GameState) Location(id string) (Location, bool) {
	for _, l := range g.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// WithLocation returns a copy of g with the location of the same id replaced.
func (g GameState) WithLocation(loc Location) GameState {
	locs := slices.Clone(g.Locations)
	for i := range locs {
		if locs[i].ID == loc.ID {
			locs[i] = loc
		}
	}
	g.Locations = locs
	return g
}

// Discover marks a location as discovered.
func (g GameState) Discover(id string) GameState {
	loc, ok := g.Location(id)
	if !ok || loc.Discovered {
		return g
	}
	loc.Discovered = true
	return g.WithLocation(loc)
}

// RuinsOpen reports whether ruin trials are in progress: the door is open
// and the ruins are not yet cleared.
func (g GameState) RuinsOpen() bool {
	ruins, _ := g.Location(LocationAncientRuins)
	return g.Flags.Has(FlagAncientDoorOpened) && !ruins.Cleared
}

// RuinsCleared reports whether the ancient ruins have been conquered.
func (g GameState) RuinsCleared() bool {
	ruins, _ := g.Location(LocationAncientRuins)
	return ruins.Cleared
}
