package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/dark-path/internal/catalog"
	"github.com/tatianab/dark-path/internal/config"
	"github.com/tatianab/dark-path/internal/engine"
	"github.com/tatianab/dark-path/internal/models"
)

func TestTypewriter(t *testing.T) {
	var tw typewriter
	tw.Set("héllo")
	if tw.View() != "" || tw.Done() {
		t.Fatalf("fresh typewriter shows %q", tw.View())
	}
	for i := 0; i < 2; i++ {
		tw.Advance()
	}
	if got := tw.View(); got != "hé" {
		t.Errorf("after two ticks View() = %q, want %q", got, "hé")
	}
	gen := tw.gen
	tw.Finish()
	if !tw.Done() || tw.View() != "héllo" {
		t.Errorf("Finish left %q", tw.View())
	}
	if tw.Advance() {
		t.Error("Advance reported more text after Finish")
	}
	tw.Set("next")
	if tw.gen == gen {
		t.Error("Set did not change the generation")
	}
}

func newTestModel(t *testing.T) model {
	t.Helper()
	return newTestModelWith(t, &config.Config{CheckPause: 1})
}

func newTestModelWith(t *testing.T, cfg *config.Config) model {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	game := engine.NewGame(cat)
	game.Start(42)
	m := NewModel(game, cfg)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return next.(model)
}

func press(t *testing.T, m model, input string) (model, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(input)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model), cmd
}

func TestModelPlaysATurn(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.View(), "Ravencross") {
		t.Fatalf("intro not shown:\n%s", m.View())
	}

	m, _ = press(t, m, "")
	if len(m.prompt.Options) == 0 {
		t.Fatalf("no options after leaving the intro: %+v", m.prompt)
	}

	m, cmd := press(t, m, "1")
	if !m.paused || cmd == nil {
		t.Fatalf("expected a skill check pause, paused=%v", m.paused)
	}
	if !strings.Contains(m.typer.View(), "Skill Check") {
		t.Errorf("check not shown: %q", m.typer.View())
	}

	// Input is ignored while the check is on screen.
	before, _ := m.game.State()
	m, _ = press(t, m, "2")
	after, _ := m.game.State()
	if !m.paused || after.EncountersCompleted != before.EncountersCompleted {
		t.Error("input was accepted during the pause")
	}

	next, _ := m.Update(pauseDoneMsg{})
	m = next.(model)
	if m.paused || len(m.prompt.Options) != 0 {
		t.Errorf("after the pause: paused=%v options=%v", m.paused, m.prompt.Options)
	}
	if !strings.HasPrefix(m.prompt.Text, "Success!") && !strings.HasPrefix(m.prompt.Text, "Failure!") {
		t.Errorf("result text = %q", m.prompt.Text)
	}
}

func TestModelRejectsNonsense(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "")
	m, _ = press(t, m, "dance wildly")
	if m.notice == "" || len(m.prompt.Options) == 0 {
		t.Errorf("notice = %q, options = %d", m.notice, len(m.prompt.Options))
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "/quit")
	if !m.ended {
		t.Fatal("quit did not end the game")
	}
	if _, cmd := press(t, m, ""); cmd == nil {
		t.Error("Enter after the end should quit the program")
	}
}

func TestEnterFinishesClosingTextBeforeQuitting(t *testing.T) {
	m := newTestModelWith(t, &config.Config{CharDelay: time.Millisecond, CheckPause: 1})
	m.typer.Finish()
	m, _ = press(t, m, "/quit")
	if !m.ended || m.typer.Done() {
		t.Fatalf("ended=%v done=%v", m.ended, m.typer.Done())
	}

	m, cmd := press(t, m, "")
	if cmd != nil || !m.typer.Done() {
		t.Fatal("first Enter should reveal the closing text, not quit")
	}
	if _, cmd := press(t, m, ""); cmd == nil {
		t.Error("second Enter should quit")
	}
}

func TestSkillsPanelDescribesBestSkills(t *testing.T) {
	m := newTestModel(t)
	state, err := m.game.State()
	if err != nil {
		t.Fatal(err)
	}
	// Long descriptions wrap inside the panel.
	squash := func(s string) string { return strings.Join(strings.Fields(s), "") }
	panel := squash(m.renderSkills(state))
	for _, skill := range []models.Skill{state.Skills.Primary, state.Skills.Secondary} {
		if !strings.Contains(panel, squash(skill.Description())) {
			t.Errorf("view lacks description of %s", skill)
		}
	}
}
