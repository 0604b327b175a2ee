// Package catalog holds the encounter table: every encounter the player can
// face, the ending texts, and the rules for drawing the next encounter.
//
// The table lives in encounters.yaml, embedded at build time and validated
// once when it is parsed.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/dark-path/internal/models"
)

//go:embed encounters.yaml
var defaultTable []byte

// ErrInvalidCatalog is wrapped by every validation failure.
var ErrInvalidCatalog = errors.New("invalid encounter catalog")

// OptionCount is the number of options every encounter offers.
const OptionCount = 3

// CurseChance is the per-draw probability that the curse encounter joins the
// ambient pool while the player is cursed.
const CurseChance = 0.3

// Kind groups encounters by the table they are drawn from.
type Kind string

const (
	KindAmbient Kind = "ambient"
	KindCurse   Kind = "curse"
	KindTrial   Kind = "trial"
	KindWitch   Kind = "witch"
	KindPriest  Kind = "priest"
	KindEnding  Kind = "ending"
)

var kinds = []Kind{KindAmbient, KindCurse, KindTrial, KindWitch, KindPriest, KindEnding}

// Category is the family of ending the player is headed for.
type Category string

const (
	CategoryAncientPower Category = "ancient_power"
	CategoryCurse        Category = "curse"
	CategoryMadness      Category = "madness"
	CategoryRedemption   Category = "redemption"
)

// Categories lists every ending category in priority order.
var Categories = []Category{CategoryAncientPower, CategoryCurse, CategoryMadness, CategoryRedemption}

// FlagEffect sets a flag to a value when an encounter resolves.
type FlagEffect struct {
	Flag  models.Flag
	Value bool
}

// Option is one of the three choices of an encounter.
type Option struct {
	Key     string          `yaml:"-"`
	Label   string          `yaml:"label"`
	Delta   models.Delta    `yaml:"delta"`
	Flags   map[string]bool `yaml:"flags"`

	Effects []FlagEffect `yaml:"-"`
}

// Encounter is a single scene with a skill check and three options.
type Encounter struct {
	ID          string          `yaml:"id"`
	Kind        Kind            `yaml:"kind"`
	Category    Category        `yaml:"category"`
	Description string          `yaml:"description"`
	Skill       models.Skill    `yaml:"skill"`
	Difficulty  int             `yaml:"difficulty"`
	Discovers   string          `yaml:"discovers"`
	Flags       map[string]bool `yaml:"flags"`
	Options     []Option        `yaml:"options"`

	Effects []FlagEffect `yaml:"-"`

	tmpl *template.Template
}

// Option returns the option for key ("1".."3").
func (e Encounter) Option(key string) (Option, bool) {
	for _, o := range e.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// Render returns a copy of e with the world flavor filled into its description.
func (e Encounter) Render(w models.World) Encounter {
	if e.tmpl == nil {
		return e
	}
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, w); err != nil {
		return e
	}
	e.Description = buf.String()
	return e
}

// ApplyFlags applies the encounter's own flag effects and then those of the
// chosen option.
func (e Encounter) ApplyFlags(fs models.Flags, opt Option) models.Flags {
	for _, eff := range e.Effects {
		fs = fs.With(eff.Flag, eff.Value)
	}
	for _, eff := range opt.Effects {
		fs = fs.With(eff.Flag, eff.Value)
	}
	return fs
}

type endingTexts struct {
	Success []string `yaml:"success"`
	Failure []string `yaml:"failure"`
}

type table struct {
	Encounters []Encounter               `yaml:"encounters"`
	Endings    map[Category]endingTexts `yaml:"endings"`
}

// Catalog is a validated encounter table. It is read-only after Parse and
// safe to share between sessions.
type Catalog struct {
	byID    map[string]Encounter
	byKind  map[Kind][]Encounter
	endings map[Category]endingTexts
}

// Default parses the embedded encounter table.
func Default() (*Catalog, error) {
	return Parse(defaultTable)
}

// Parse decodes and validates an encounter table.
func Parse(data []byte) (*Catalog, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		byID:    make(map[string]Encounter, len(t.Encounters)),
		byKind:  make(map[Kind][]Encounter),
		endings: t.Endings,
	}
	for _, enc := range t.Encounters {
		enc, err := prepare(enc)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[enc.ID]; dup {
			return nil, invalid(enc.ID, "duplicate id")
		}
		c.byID[enc.ID] = enc
		c.byKind[enc.Kind] = append(c.byKind[enc.Kind], enc)
	}

	for _, k := range kinds {
		if len(c.byKind[k]) == 0 {
			return nil, fmt.Errorf("%w: no %s encounters", ErrInvalidCatalog, k)
		}
	}
	for _, cat := range Categories {
		n := 0
		for _, enc := range c.byKind[KindEnding] {
			if enc.Category == cat {
				n++
			}
		}
		if n != 1 {
			return nil, fmt.Errorf("%w: want exactly one %s ending encounter, got %d", ErrInvalidCatalog, cat, n)
		}
		texts := c.endings[cat]
		if len(texts.Success) != OptionCount || len(texts.Failure) != OptionCount {
			return nil, fmt.Errorf("%w: %s endings need %d success and %d failure texts", ErrInvalidCatalog, cat, OptionCount, OptionCount)
		}
	}
	return c, nil
}

func prepare(enc Encounter) (Encounter, error) {
	if enc.ID == "" {
		return enc, fmt.Errorf("%w: encounter without id", ErrInvalidCatalog)
	}
	if !slices.Contains(kinds, enc.Kind) {
		return enc, invalid(enc.ID, "unknown kind %q", enc.Kind)
	}
	if !enc.Skill.Valid() {
		return enc, invalid(enc.ID, "unknown skill %q", enc.Skill)
	}
	if enc.Difficulty <= 0 {
		return enc, invalid(enc.ID, "difficulty must be positive, got %d", enc.Difficulty)
	}
	if len(enc.Options) != OptionCount {
		return enc, invalid(enc.ID, "need exactly %d options, got %d", OptionCount, len(enc.Options))
	}
	if enc.Discovers != "" && !models.IsLocation(enc.Discovers) {
		return enc, invalid(enc.ID, "unknown location %q", enc.Discovers)
	}
	if enc.Kind == KindEnding && !slices.Contains(Categories, enc.Category) {
		return enc, invalid(enc.ID, "unknown ending category %q", enc.Category)
	}

	var err error
	if enc.Effects, err = effects(enc.Flags); err != nil {
		return enc, invalid(enc.ID, "%v", err)
	}
	opts := make([]Option, len(enc.Options))
	for i, o := range enc.Options {
		if o.Label == "" {
			return enc, invalid(enc.ID, "option %d has no label", i+1)
		}
		o.Key = strconv.Itoa(i + 1)
		if o.Effects, err = effects(o.Flags); err != nil {
			return enc, invalid(enc.ID, "option %d: %v", i+1, err)
		}
		opts[i] = o
	}
	enc.Options = opts

	tmpl, err := template.New(enc.ID).Option("missingkey=error").Parse(enc.Description)
	if err != nil {
		return enc, invalid(enc.ID, "description: %v", err)
	}
	if err := tmpl.Execute(&bytes.Buffer{}, models.World{}); err != nil {
		return enc, invalid(enc.ID, "description: %v", err)
	}
	enc.tmpl = tmpl
	return enc, nil
}

func effects(raw map[string]bool) ([]FlagEffect, error) {
	out := make([]FlagEffect, 0, len(raw))
	for name, v := range raw {
		f, ok := models.ParseFlag(name)
		if !ok {
			return nil, fmt.Errorf("unknown flag %q", name)
		}
		out = append(out, FlagEffect{Flag: f, Value: v})
	}
	slices.SortFunc(out, func(a, b FlagEffect) int { return int(a.Flag) - int(b.Flag) })
	return out, nil
}

func invalid(id, format string, args ...any) error {
	return fmt.Errorf("%w: encounter %q: %s", ErrInvalidCatalog, id, fmt.Sprintf(format, args...))
}

// Encounter looks up an encounter by id, rendered without world flavor.
func (c *Catalog) Encounter(id string) (Encounter, bool) {
	enc, ok := c.byID[id]
	return enc, ok
}

// Special returns the first encounter of kind, used for the witch and priest
// milestones.
func (c *Catalog) Special(kind Kind) Encounter {
	return c.byKind[kind][0]
}

// Ending returns the ending encounter for cat.
func (c *Catalog) Ending(cat Category) Encounter {
	for _, enc := range c.byKind[KindEnding] {
		if enc.Category == cat {
			return enc
		}
	}
	return Encounter{}
}

// EndingText returns the closing narrative for an ending encounter resolved
// with option key.
func (c *Catalog) EndingText(cat Category, success bool, key string) string {
	texts := c.endings[cat].Failure
	if success {
		texts = c.endings[cat].Success
	}
	i, err := strconv.Atoi(key)
	if err != nil || i < 1 || i > len(texts) {
		return ""
	}
	return texts[i-1]
}

// Next draws the next encounter from the random tables. While the ruins are
// open only trials are drawn. Otherwise the ambient encounters form the pool,
// joined by the curse with probability CurseChance if the player is cursed.
func (c *Catalog) Next(state models.GameState, rng *rand.Rand) Encounter {
	if state.RuinsOpen() {
		trials := c.byKind[KindTrial]
		return trials[rng.IntN(len(trials))].Render(state.World)
	}

	pool := slices.Clone(c.byKind[KindAmbient])
	if state.Flags.Has(models.FlagCursedByWitch) && rng.Float64() < CurseChance {
		pool = append(pool, c.byKind[KindCurse]...)
	}
	return pool[rng.IntN(len(pool))].Render(state.World)
}
