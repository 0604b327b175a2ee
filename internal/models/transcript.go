package models

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// TurnRecord is one resolved choice.
type TurnRecord struct {
	Turn       int    `yaml:"turn"`
	Encounter  string `yaml:"encounter"`
	Option     string `yaml:"option"`
	Label      string `yaml:"label"`
	Skill      Skill  `yaml:"skill"`
	Roll       int    `yaml:"roll"`
	Difficulty int    `yaml:"difficulty"`
	Success    bool   `yaml:"success"`
	Narrative  string `yaml:"narrative"`
	Stats      Stats  `yaml:"stats"`
}

// Transcript is a write-only record of a session, kept for the player to
// read after the game. It is never loaded back.
type Transcript struct {
	SessionID string        `yaml:"session_id"`
	Seed      uint64        `yaml:"seed"`
	StartedAt time.Time     `yaml:"started_at"`
	World     World         `yaml:"world"`
	Primary   Skill         `yaml:"primary_skill"`
	Secondary Skill         `yaml:"secondary_skill"`
	Skills    map[Skill]int `yaml:"skills"`
	Turns     []TurnRecord  `yaml:"turns"`
	Final     string        `yaml:"final,omitempty"`
}

// NewTranscript starts a transcript for a freshly created session.
func NewTranscript(seed uint64, state GameState, startedAt time.Time) *Transcript {
	return &Transcript{
		SessionID: uuid.NewString(),
		Seed:      seed,
		StartedAt: startedAt,
		World:     state.World,
		Primary:   state.Skills.Primary,
		Secondary: state.Skills.Secondary,
		Skills:    state.Skills.Proficiencies(),
	}
}

// Record appends a turn.
func (t *Transcript) Record(r TurnRecord) {
	t.Turns = append(t.Turns, r)
}

// Save writes the transcript as <dir>/<session id>.yaml and returns the path.
func (t *Transcript) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}

	path := filepath.Join(dir, t.SessionID+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
