package tui

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/dark-path/internal/command"
	"github.com/tatianab/dark-path/internal/config"
	"github.com/tatianab/dark-path/internal/engine"
	"github.com/tatianab/dark-path/internal/models"
)

const (
	parchment     = lipgloss.Color("#E6D5A7")
	darkParchment = lipgloss.Color("#A89F81")
	darkerBG      = lipgloss.Color("#2A2622")
	panelWidth    = 30
)

type model struct {
	game       *engine.Game
	prompt     engine.Prompt
	typer      typewriter
	textInput  textinput.Model
	viewport   viewport.Model
	statBar    progress.Model
	skillBar   progress.Model
	charDelay  time.Duration
	checkPause time.Duration

	// While paused a skill check is on screen and input is ignored; pending
	// is shown once the pause is over.
	paused  bool
	pending engine.Outcome

	ended  bool
	notice string
	err    error
	width  int
	height int
}

var (
	storyStyle = lipgloss.NewStyle().
			Foreground(parchment)

	optionStyle = lipgloss.NewStyle().
			Foreground(parchment).
			Background(darkerBG).
			Border(lipgloss.NormalBorder()).
			BorderForeground(darkParchment).
			PaddingLeft(1).
			PaddingRight(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0504D"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(darkParchment)

	titleStyle = lipgloss.NewStyle().
			Foreground(parchment).
			Bold(true).
			Underline(true)
)

// NewModel builds the TUI for a game that has already been started.
func NewModel(game *engine.Game, cfg *config.Config) model {
	ti := textinput.New()
	ti.Placeholder = "Press Enter to continue..."
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 40

	m := model{
		game:       game,
		textInput:  ti,
		statBar:    progress.New(progress.WithSolidFill(string(parchment)), progress.WithWidth(panelWidth-12), progress.WithoutPercentage()),
		skillBar:   progress.New(progress.WithSolidFill(string(darkParchment)), progress.WithWidth(panelWidth-12), progress.WithoutPercentage()),
		charDelay:  cfg.CharDelay,
		checkPause: cfg.CheckPause,
	}
	if p, err := game.Prompt(); err != nil {
		m.err = err
	} else {
		m.setPrompt(p)
	}
	return m
}

type typeTickMsg struct {
	gen int
}

type pauseDoneMsg struct{}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.typeTick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.paused {
				return m, nil
			}
			if m.ended && !m.typer.Done() {
				m.typer.Finish()
				m.refresh()
				return m, nil
			}
			if m.ended || m.err != nil {
				return m, tea.Quit
			}
			raw := m.textInput.Value()
			m.textInput.Reset()
			if raw == "" && !m.typer.Done() {
				m.typer.Finish()
				m.refresh()
				return m, nil
			}
			return m.submit(raw)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.storySize()
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(w, h)
		} else {
			m.viewport.Width = w
			m.viewport.Height = h
		}
		m.refresh()

	case typeTickMsg:
		if msg.gen != m.typer.gen {
			return m, nil
		}
		more := m.typer.Advance()
		m.refresh()
		if more {
			return m, m.typeTick()
		}
		return m, nil

	case pauseDoneMsg:
		m.paused = false
		return m, m.show(m.pending)
	}

	if !m.paused && !m.ended {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) submit(raw string) (tea.Model, tea.Cmd) {
	ev, err := command.Parse(raw, m.prompt.Options)
	if err != nil {
		m.notice = fmt.Sprintf("%q means nothing here.", raw)
		return m, nil
	}

	out, err := m.game.Submit(ev)
	switch {
	case errors.Is(err, engine.ErrInvalidChoice):
		m.notice = "That is not one of your choices."
		return m, nil
	case err != nil:
		log.Printf("submit %+v: %v", ev, err)
		m.err = err
		return m, nil
	}
	m.notice = ""

	if out.Check != nil {
		log.Printf("turn %d: %s", out.Turn.Turn, strings.ReplaceAll(out.Check.String(), "\n", " "))
		pause := m.checkPause
		if pause == 0 {
			pause = out.Pause
		}
		m.paused = true
		m.pending = out
		m.prompt = engine.Prompt{}
		m.typer.Set(out.Check.String())
		m.typer.Finish()
		m.refresh()
		return m, tea.Tick(pause, func(time.Time) tea.Msg { return pauseDoneMsg{} })
	}
	return m, m.show(out)
}

func (m *model) show(out engine.Outcome) tea.Cmd {
	if out.Ended {
		m.ended = true
		m.textInput.Placeholder = "Press Enter to leave Ravencross."
	}
	p, err := m.game.Prompt()
	if err != nil {
		m.err = err
		return nil
	}
	m.setPrompt(p)
	return m.typeTick()
}

func (m *model) setPrompt(p engine.Prompt) {
	m.prompt = p
	m.typer.Set(p.Text)
	switch {
	case m.ended:
	case len(p.Options) > 0:
		m.textInput.Placeholder = "Choose 1-3, or type part of an option..."
	default:
		m.textInput.Placeholder = "Press Enter to continue..."
	}
	if m.charDelay <= 0 {
		m.typer.Finish()
	}
	m.refresh()
}

func (m model) typeTick() tea.Cmd {
	if m.typer.Done() || m.charDelay <= 0 {
		return nil
	}
	gen := m.typer.gen
	return tea.Tick(m.charDelay, func(time.Time) tea.Msg { return typeTickMsg{gen: gen} })
}

func (m *model) refresh() {
	if m.viewport.Width == 0 {
		return
	}
	m.viewport.SetContent(m.renderStory())
	m.viewport.GotoBottom()
}

func (m model) storySize() (int, int) {
	w := m.width - 2*panelWidth - 6
	h := m.height - 6
	return max(w, 20), max(h, 5)
}

func (m model) renderStory() string {
	w, _ := m.storySize()
	s := storyStyle.Width(w).Render(m.typer.View())
	if m.typer.Done() && len(m.prompt.Options) > 0 {
		var opts []string
		for _, o := range m.prompt.Options {
			opts = append(opts, optionStyle.Width(w-4).Render(o.Key+". "+o.Label))
		}
		s += "\n\n" + lipgloss.JoinVertical(lipgloss.Left, opts...)
	}
	return s
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\nPress Enter to quit.\n", m.err)
	}
	state, err := m.game.State()
	if err != nil {
		return "\n  No game in progress.\n"
	}
	if m.viewport.Width == 0 {
		return "\n  Lighting the candles...\n"
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSkills(state),
		"  ",
		m.viewport.View(),
		m.renderStats(state),
	)

	help := "Enter: continue / skip text  ·  1-3: choose  ·  /quit: leave"
	if m.paused {
		help = "The fates are deciding..."
	}
	footer := []string{body, "\n" + m.textInput.View()}
	if m.notice != "" {
		footer = append(footer, noticeStyle.Render(m.notice))
	}
	footer = append(footer, helpStyle.Render(help))
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, footer...) + "\n"
}

func (m model) renderStats(state models.GameState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CONDITION") + "\n")
	for _, s := range []struct {
		name  string
		value int
	}{
		{"Health", state.Stats.Health},
		{"Sanity", state.Stats.Sanity},
		{"Corruption", state.Stats.Corruption},
	} {
		fmt.Fprintf(&b, "%-10s %3d%%\n%s\n", s.name, s.value, m.statBar.ViewAs(float64(s.value)/models.MaxStat))
	}

	b.WriteString("\n" + titleStyle.Render("JOURNAL") + "\n")
	fmt.Fprintf(&b, "Encounters: %d\n", state.EncountersCompleted)
	for _, loc := range state.Locations {
		if !loc.Discovered {
			continue
		}
		line := loc.Name
		switch {
		case loc.Cleared:
			line += " (conquered)"
		case loc.RequiredTrials > 0:
			line += fmt.Sprintf(" (%d/%d trials)", loc.TrialsCompleted, loc.RequiredTrials)
		}
		b.WriteString("- " + line + "\n")
	}
	return panelStyle.Width(panelWidth).Height(m.viewport.Height).Render(b.String())
}

func (m model) renderSkills(state models.GameState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SKILLS") + "\n")
	for _, skill := range models.Skills {
		p := state.Skills.Proficiency(skill)
		name := skill.DisplayName()
		switch skill {
		case state.Skills.Primary:
			name += " *"
		case state.Skills.Secondary:
			name += " +"
		}
		fmt.Fprintf(&b, "%-12s %2d\n%s\n", name, p, m.skillBar.ViewAs(float64(p)/models.MaxProficiency))
		if skill == state.Skills.Primary || skill == state.Skills.Secondary {
			b.WriteString(helpStyle.Render(skill.Description()) + "\n")
		}
	}
	return lipgloss.NewStyle().Width(panelWidth).Foreground(darkParchment).Render(b.String())
}

// Run starts the TUI for game and blocks until the player leaves. Log output
// goes to cfg.DebugLog when set and is discarded otherwise, since the
// terminal belongs to the TUI.
func Run(game *engine.Game, cfg *config.Config) error {
	if cfg.DebugLog != "" {
		f, err := tea.LogToFile(cfg.DebugLog, "darkpath")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(NewModel(game, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
