// Package engine runs a Dark Path session: it picks encounters, resolves the
// player's choices with skill checks, and decides when the story ends.
//
// A Session is an immutable value. Submit returns the next Session and leaves
// the receiver untouched, so any earlier Session can be replayed. Game wraps
// the current Session for callers that want a single mutable handle.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tatianab/dark-path/internal/catalog"
	"github.com/tatianab/dark-path/internal/dice"
	"github.com/tatianab/dark-path/internal/models"
)

var (
	// ErrInvalidChoice is returned for a key that is not one of the current
	// options, or a choice when none is pending. The session is unchanged.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrSessionEnded is returned by Submit once the session is over.
	ErrSessionEnded = errors.New("session has ended")
	// ErrNoSession is returned by Game before Start.
	ErrNoSession = errors.New("no active session")
	// ErrUnknownEvent is returned for an event kind Submit does not know.
	ErrUnknownEvent = errors.New("unknown event")
)

// Phase is where the session is in its turn cycle.
type Phase string

const (
	PhaseIntro     Phase = "intro"
	PhaseEncounter Phase = "encounter"
	PhaseResult    Phase = "result"
	PhaseGameOver  Phase = "game_over"
	PhaseEnding    Phase = "ending"
	PhaseQuit      Phase = "quit"
)

// Terminal reports whether no further encounters can follow.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver || p == PhaseEnding || p == PhaseQuit
}

// EventKind identifies a turn event.
type EventKind int

const (
	EventContinue EventKind = iota
	EventChoose
	EventQuit
)

// Event is a discrete input from the player.
type Event struct {
	Kind EventKind
	Key  string
}

// Continue asks for the next encounter.
func Continue() Event { return Event{Kind: EventContinue} }

// Choose picks option key ("1".."3").
func Choose(key string) Event { return Event{Kind: EventChoose, Key: key} }

// Quit ends the session.
func Quit() Event { return Event{Kind: EventQuit} }

// PromptOption is a labelled choice.
type PromptOption struct {
	Key   string
	Label string
}

// Prompt is what the presentation layer shows: the text and, when a choice
// is pending, the options.
type Prompt struct {
	Text    string
	Options []PromptOption
}

// Outcome reports the result of a Submit.
type Outcome struct {
	Phase          Phase
	Text           string
	Ended          bool
	AwaitingChoice bool

	// Set only when a choice was resolved.
	Check *Check
	Pause time.Duration
	Turn  *models.TurnRecord
}

// Session is one playthrough. The zero value is not usable; call NewSession.
type Session struct {
	catalog   *catalog.Catalog
	state     models.GameState
	phase     Phase
	encounter catalog.Encounter
	category  catalog.Category
	text      string
	rng       rand.PCG
	roll      func(*rand.Rand) int
}

// NewSession rolls a new character and world from seed.
func NewSession(cat *catalog.Catalog, seed uint64) Session {
	src := dice.NewRand(dice.Seed(seed))
	state := models.NewGameState(src.Rand())
	return Session{
		catalog: cat,
		state:   state,
		phase:   PhaseIntro,
		text:    introText(state.World),
		rng:     src.State(),
		roll:    dice.D20,
	}
}

// State returns the session's game state.
func (s Session) State() models.GameState { return s.state }

// Phase returns the current phase.
func (s Session) Phase() Phase { return s.phase }

// Encounter returns the encounter awaiting a choice, if any.
func (s Session) Encounter() (catalog.Encounter, bool) {
	return s.encounter, s.phase == PhaseEncounter
}

// Prompt returns the text to display and the pending options.
func (s Session) Prompt() Prompt {
	p := Prompt{Text: s.text}
	if s.phase == PhaseEncounter {
		for _, o := range s.encounter.Options {
			p.Options = append(p.Options, PromptOption{Key: o.Key, Label: o.Label})
		}
	}
	return p
}

func (s Session) outcome() Outcome {
	return Outcome{
		Phase:          s.phase,
		Text:           s.text,
		Ended:          s.phase.Terminal(),
		AwaitingChoice: s.phase == PhaseEncounter,
	}
}

// Submit applies ev and returns the next session. On error the returned
// session is s itself.
func (s Session) Submit(ev Event) (Session, Outcome, error) {
	if s.phase.Terminal() {
		return s, Outcome{}, ErrSessionEnded
	}

	switch ev.Kind {
	case EventQuit:
		s.phase = PhaseQuit
		s.encounter = catalog.Encounter{}
		s.text = quitText
		return s, s.outcome(), nil

	case EventContinue:
		if s.phase == PhaseEncounter {
			return s, s.outcome(), nil
		}
		next, out := s.advance()
		return next, out, nil

	case EventChoose:
		if s.phase != PhaseEncounter {
			return s, Outcome{}, fmt.Errorf("%w: nothing to choose in %s", ErrInvalidChoice, s.phase)
		}
		opt, ok := s.encounter.Option(ev.Key)
		if !ok {
			return s, Outcome{}, fmt.Errorf("%w: %q", ErrInvalidChoice, ev.Key)
		}
		next, out := s.choose(opt)
		return next, out, nil
	}
	return s, Outcome{}, fmt.Errorf("%w: %d", ErrUnknownEvent, ev.Kind)
}

// Game holds the current session for a presentation loop and keeps its
// transcript.
type Game struct {
	catalog    *catalog.Catalog
	session    *Session
	transcript *models.Transcript
	now        func() time.Time
}

// NewGame returns a Game with no session; call Start.
func NewGame(cat *catalog.Catalog) *Game {
	return &Game{catalog: cat, now: time.Now}
}

// Start begins a new session, discarding any previous one.
func (g *Game) Start(seed uint64) Prompt {
	s := NewSession(g.catalog, seed)
	g.session = &s
	g.transcript = models.NewTranscript(seed, s.State(), g.now())
	return s.Prompt()
}

// Prompt returns the current prompt.
func (g *Game) Prompt() (Prompt, error) {
	if g.session == nil {
		return Prompt{}, ErrNoSession
	}
	return g.session.Prompt(), nil
}

// State returns the current game state.
func (g *Game) State() (models.GameState, error) {
	if g.session == nil {
		return models.GameState{}, ErrNoSession
	}
	return g.session.State(), nil
}

// Submit forwards ev to the current session.
func (g *Game) Submit(ev Event) (Outcome, error) {
	if g.session == nil {
		return Outcome{}, ErrNoSession
	}
	next, out, err := g.session.Submit(ev)
	if err != nil {
		return out, err
	}
	g.session = &next
	if out.Turn != nil {
		g.transcript.Record(*out.Turn)
	}
	if out.Ended {
		g.transcript.Final = out.Text
	}
	return out, nil
}

// Transcript returns the transcript of the current session, or nil.
func (g *Game) Transcript() *models.Transcript {
	return g.transcript
}
