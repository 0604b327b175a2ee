package models

// Flag is a named world-state condition gating special content.
type Flag uint8

const (
	FlagHasRitualKnowledge Flag = iota
	FlagEncounteredWitch
	FlagPriestAlive
	FlagAncientDoorOpened
	FlagMadeDealWithCreature
	FlagFoundAncientTome
	FlagCursedByWitch
	flagCount
)

var flagNames = [flagCount]string{
	FlagHasRitualKnowledge:   "has_ritual_knowledge",
	FlagEncounteredWitch:     "encountered_witch",
	FlagPriestAlive:          "priest_alive",
	FlagAncientDoorOpened:    "ancient_door_opened",
	FlagMadeDealWithCreature: "made_deal_with_creature",
	FlagFoundAncientTome:     "found_ancient_tome",
	FlagCursedByWitch:        "cursed_by_witch",
}

func (f Flag) String() string {
	if f >= flagCount {
		return "unknown"
	}
	return flagNames[f]
}

// ParseFlag resolves a flag by its snake_case name.
func ParseFlag(name string) (Flag, bool) {
	for i, n := range flagNames {
		if n == name {
			return Flag(i), true
		}
	}
	return 0, false
}

// Flags is a set of flags packed into a bit field.
type Flags uint16

// DefaultFlags returns the starting flags: everything false except priest_alive.
func DefaultFlags() Flags {
	return Flags(0).With(FlagPriestAlive, true)
}

// Has reports whether f is set.
func (fs Flags) Has(f Flag) bool {
	return fs&(1<<f) != 0
}

// With returns a copy of fs with f set to v.
func (fs Flags) With(f Flag, v bool) Flags {
	if v {
		return fs | 1<<f
	}
	return fs &^ (1 << f)
}

// Map returns every flag by name.
func (fs Flags) Map() map[string]bool {
	m := make(map[string]bool, flagCount)
	for f := range flagCount {
		m[f.String()] = fs.Has(f)
	}
	return m
}
