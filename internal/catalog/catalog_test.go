package catalog

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/tatianab/dark-path/internal/models"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default(): %v", err)
	}
	return c
}

func TestDefaultCatalog(t *testing.T) {
	c := mustDefault(t)

	wantKinds := map[Kind]int{
		KindAmbient: 3,
		KindCurse:   1,
		KindTrial:   3,
		KindWitch:   1,
		KindPriest:  1,
		KindEnding:  4,
	}
	for kind, n := range wantKinds {
		if got := len(c.byKind[kind]); got != n {
			t.Errorf("%s encounters = %d, want %d", kind, got, n)
		}
	}

	whispers, ok := c.Encounter("whispers")
	if !ok {
		t.Fatal("whispers encounter missing")
	}
	opt, ok := whispers.Option("2")
	if !ok || opt.Label != "Hurry past, covering your ears" {
		t.Fatalf("whispers option 2 = %+v", opt)
	}
	if opt.Delta != (models.Delta{Health: 0, Sanity: -5, Corruption: 0}) || whispers.Difficulty != 13 {
		t.Errorf("whispers option 2 delta %+v, difficulty %d", opt.Delta, whispers.Difficulty)
	}
}

func TestTrialTableSkills(t *testing.T) {
	c := mustDefault(t)
	got := map[models.Skill]bool{}
	for _, enc := range c.byKind[KindTrial] {
		got[enc.Skill] = true
	}
	for _, s := range []models.Skill{models.SkillOccultism, models.SkillCombat, models.SkillLore} {
		if !got[s] {
			t.Errorf("no trial uses %s", s)
		}
	}
}

func TestRenderInsertsWeather(t *testing.T) {
	c := mustDefault(t)
	enc, _ := c.Encounter("whispers")
	got := enc.Render(models.World{Weather: "misty"}).Description
	if !strings.HasPrefix(got, "In the misty night") {
		t.Errorf("Render() = %q", got)
	}
	if strings.Contains(enc.Description, "misty") {
		t.Error("Render mutated the catalog entry")
	}
}

func TestEndingTexts(t *testing.T) {
	c := mustDefault(t)
	seen := map[string]bool{}
	for _, cat := range Categories {
		if c.Ending(cat).Category != cat {
			t.Errorf("Ending(%s) returned %q", cat, c.Ending(cat).ID)
		}
		for _, success := range []bool{true, false} {
			for _, key := range []string{"1", "2", "3"} {
				text := c.EndingText(cat, success, key)
				if !strings.HasPrefix(text, "ENDING: ") {
					t.Errorf("EndingText(%s, %v, %s) = %q", cat, success, key, text)
				}
				seen[text] = true
			}
		}
	}
	if len(seen) != 24 {
		t.Errorf("got %d distinct ending texts, want 24", len(seen))
	}
	if got := c.EndingText(CategoryCurse, true, "4"); got != "" {
		t.Errorf("EndingText with bad key = %q", got)
	}
	if got := c.EndingText(CategoryRedemption, true, "2"); !strings.Contains(got, "CLEAN ESCAPE") {
		t.Errorf("redemption success 2 = %q", got)
	}
}

func TestApplyFlags(t *testing.T) {
	c := mustDefault(t)
	witch := c.Special(KindWitch)

	attack, _ := witch.Option("3")
	fs := witch.ApplyFlags(models.DefaultFlags(), attack)
	if !fs.Has(models.FlagEncounteredWitch) || !fs.Has(models.FlagCursedByWitch) {
		t.Errorf("attacking the witch: %v", fs.Map())
	}

	enter, _ := witch.Option("1")
	fs = witch.ApplyFlags(models.DefaultFlags(), enter)
	if !fs.Has(models.FlagHasRitualKnowledge) || !fs.Has(models.FlagAncientDoorOpened) || fs.Has(models.FlagCursedByWitch) {
		t.Errorf("entering the cottage: %v", fs.Map())
	}

	priest := c.Special(KindPriest)
	silence, _ := priest.Option("3")
	if priest.ApplyFlags(models.DefaultFlags(), silence).Has(models.FlagPriestAlive) {
		t.Error("silencing the priest left him alive")
	}
}

func TestNextUsesTrialsWhileRuinsOpen(t *testing.T) {
	c := mustDefault(t)
	rng := rand.New(rand.NewPCG(1, 2))
	state := models.NewGameState(rng)
	state.Flags = state.Flags.With(models.FlagAncientDoorOpened, true)

	for range 100 {
		if enc := c.Next(state, rng); enc.Kind != KindTrial {
			t.Fatalf("Next() = %s, want a trial", enc.ID)
		}
	}

	ruins, _ := state.Location(models.LocationAncientRuins)
	ruins.Cleared = true
	cleared := state.WithLocation(ruins)
	for range 100 {
		if enc := c.Next(cleared, rng); enc.Kind != KindAmbient {
			t.Fatalf("Next() after clearing = %s, want ambient", enc.ID)
		}
	}
}

func TestNextCurseOnlyWhenCursed(t *testing.T) {
	c := mustDefault(t)
	rng := rand.New(rand.NewPCG(9, 9))
	state := models.NewGameState(rng)

	for range 500 {
		if enc := c.Next(state, rng); enc.Kind == KindCurse {
			t.Fatal("curse drawn without the witch's curse")
		}
	}

	state.Flags = state.Flags.With(models.FlagCursedByWitch, true)
	curses := 0
	const draws = 4000
	for range draws {
		if c.Next(state, rng).Kind == KindCurse {
			curses++
		}
	}
	// Expected rate is 0.3 * 1/4 = 7.5%.
	if rate := float64(curses) / draws; rate < 0.05 || rate > 0.10 {
		t.Errorf("curse rate = %.3f, want about 0.075", rate)
	}
}

func TestParseRejectsBadTables(t *testing.T) {
	valid := string(defaultTable)

	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "encounters: [::"},
		{"two options", strings.Replace(valid, "      - label: Leave an offering by the tree\n        delta: {health: -5, sanity: 0, corruption: 10}\n", "", 1)},
		{"zero difficulty", strings.Replace(valid, "difficulty: 13", "difficulty: 0", 1)},
		{"unknown skill", strings.Replace(valid, "skill: willpower", "skill: juggling", 1)},
		{"unknown flag", strings.Replace(valid, "found_ancient_tome: true", "found_treasure: true", 1)},
		{"unknown location", strings.Replace(valid, "discovers: forbidden_grove", "discovers: moon", 1)},
		{"unknown kind", strings.Replace(valid, "kind: priest", "kind: bishop", 1)},
		{"bad template", strings.Replace(valid, "{{.Weather}}", "{{.Humidity}}", 1)},
		{"missing ending text", strings.Replace(valid, "      - \"ENDING: CATACLYSM\\nThe power spirals beyond control, doom cascading across reality...\"\n", "", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.data == valid {
				t.Fatal("test fixture did not change the table")
			}
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("Parse() error = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}
