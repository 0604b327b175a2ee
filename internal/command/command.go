// Package command turns what the player types into engine events.
package command

import (
	"errors"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tatianab/dark-path/internal/engine"
)

// ErrUnknownCommand is returned when input matches nothing.
var ErrUnknownCommand = errors.New("unknown command")

var multiSpaceRE = regexp.MustCompile(`\s+`)

var (
	continueWords = []string{"continue", "next", "c", "go on"}
	quitWords     = []string{"quit", "exit", "q"}
)

// Parse maps raw input to an event. Option numbers choose, an empty line or
// "continue" continues, "quit" quits, and otherwise the input is matched
// against the option labels, tolerating small typos. Quitting takes the exact
// word.
func Parse(raw string, options []engine.PromptOption) (engine.Event, error) {
	in := normalise(raw)
	if in == "" {
		return engine.Continue(), nil
	}
	for _, o := range options {
		if in == o.Key {
			return engine.Choose(o.Key), nil
		}
	}

	switch {
	case slices.Contains(quitWords, in):
		return engine.Quit(), nil
	case matchWord(in, continueWords):
		return engine.Continue(), nil
	}

	if key, ok := matchLabel(in, options); ok {
		return engine.Choose(key), nil
	}
	return engine.Event{}, ErrUnknownCommand
}

func normalise(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	raw = strings.TrimPrefix(raw, "/")
	var b strings.Builder
	for _, r := range raw {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '-' || r == '_' || r == ',' || r == '\'':
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func matchWord(in string, words []string) bool {
	for _, w := range words {
		if in == w {
			return true
		}
		if len(w) >= 4 && levenshtein.ComputeDistance(in, w) <= levenshteinLimit(len(w)) {
			return true
		}
	}
	return false
}

type candidate struct {
	key   string
	score float64
}

// matchLabel scores each option label against the input. A prefix of the
// label wins outright; otherwise the input is compared with the label's
// leading words of the same length.
func matchLabel(in string, options []engine.PromptOption) (string, bool) {
	if len(in) < 3 {
		return "", false
	}
	var cands []candidate
	for _, o := range options {
		label := normalise(o.Label)
		if strings.HasPrefix(label, in) {
			cands = append(cands, candidate{key: o.Key, score: 1})
			continue
		}
		words := strings.Fields(label)
		n := min(len(strings.Fields(in)), len(words))
		compare := strings.Join(words[:n], " ")
		dist := levenshtein.ComputeDistance(in, compare)
		if dist > levenshteinLimit(len(compare)) {
			continue
		}
		cands = append(cands, candidate{key: o.Key, score: 0.72 - 0.08*float64(dist)})
	}
	if len(cands) == 0 {
		return "", false
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if len(cands) > 1 && cands[0].score == cands[1].score {
		return "", false
	}
	return cands[0].key, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
