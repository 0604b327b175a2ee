package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/dark-path/internal/catalog"
	"github.com/tatianab/dark-path/internal/config"
	"github.com/tatianab/dark-path/internal/engine"
	"github.com/tatianab/dark-path/internal/models"
	"google.golang.org/api/option"
)

// maxSteps bounds a run in case a player keeps answering with nonsense.
const maxSteps = 200

// player picks an option key for the current prompt.
type player interface {
	Choose(ctx context.Context, state models.GameState, p engine.Prompt) string
}

type randomPlayer struct {
	rng *rand.Rand
}

func (r randomPlayer) Choose(_ context.Context, _ models.GameState, p engine.Prompt) string {
	return p.Options[r.rng.IntN(len(p.Options))].Key
}

var playerPrompt = template.Must(template.New("player").Parse(`You are playing a dark fantasy text game.
Your health is {{.State.Stats.Health}}, your sanity {{.State.Stats.Sanity}} and your corruption {{.State.Stats.Corruption}} (all out of 100).
You have completed {{.State.EncountersCompleted}} encounters. Your best skills are {{.State.Skills.Primary}} and {{.State.Skills.Secondary}}.

{{.Prompt.Text}}

{{range .Prompt.Options}}{{.Key}}. {{.Label}}
{{end}}
Reply with ONLY the number of your choice.`))

type geminiPlayer struct {
	model    *genai.GenerativeModel
	fallback randomPlayer
}

func (g geminiPlayer) Choose(ctx context.Context, state models.GameState, p engine.Prompt) string {
	var b strings.Builder
	if err := playerPrompt.Execute(&b, struct {
		State  models.GameState
		Prompt engine.Prompt
	}{state, p}); err != nil {
		log.Printf("render prompt: %v", err)
		return g.fallback.Choose(ctx, state, p)
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		log.Printf("player model: %v", err)
		return g.fallback.Choose(ctx, state, p)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return g.fallback.Choose(ctx, state, p)
	}
	answer := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	for _, r := range answer {
		for _, o := range p.Options {
			if string(r) == o.Key {
				return o.Key
			}
		}
	}
	return g.fallback.Choose(ctx, state, p)
}

func main() {
	runs := flag.Int("runs", 100, "number of games to play")
	seed := flag.Uint64("seed", 1, "seed of the first game; later games use seed+1, seed+2, ...")
	useLLM := flag.Bool("llm", false, "let Gemini choose instead of picking at random")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		log.Fatalf("Failed to load encounters: %v", err)
	}

	var p player = randomPlayer{rng: rand.New(rand.NewPCG(*seed, 0))}
	if *useLLM {
		if cfg.GeminiAPIKey == "" {
			log.Fatal("-llm needs GEMINI_API_KEY")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer client.Close()
		p = geminiPlayer{model: client.GenerativeModel(cfg.GeminiModel), fallback: p.(randomPlayer)}
	}

	endings := make(map[string]int)
	var totalTurns int
	for i := 0; i < *runs; i++ {
		game := engine.NewGame(cat)
		game.Start(*seed + uint64(i))
		out, err := play(ctx, game, p)
		if err != nil {
			log.Fatalf("Game %d: %v", i, err)
		}
		tr := game.Transcript()
		endings[firstLine(tr.Final)]++
		totalTurns += len(tr.Turns)
		fmt.Printf("Game %d (seed %d): %s after %d turns\n  %s\n", i, tr.Seed, out.Phase, len(tr.Turns), firstLine(tr.Final))

		if cfg.TranscriptDir != "" {
			if _, err := tr.Save(cfg.TranscriptDir); err != nil {
				log.Fatalf("Failed to save transcript: %v", err)
			}
		}
	}

	fmt.Println("\n--- Summary ---")
	for _, text := range slices.Sorted(maps.Keys(endings)) {
		fmt.Printf("%4d  %s\n", endings[text], text)
	}
	if *runs > 0 {
		fmt.Printf("Average turns: %.1f\n", float64(totalTurns)/float64(*runs))
	}
}

// play continues through every result and picks an option at every
// encounter until the session ends.
func play(ctx context.Context, game *engine.Game, p player) (engine.Outcome, error) {
	for step := 0; step < maxSteps; step++ {
		prompt, err := game.Prompt()
		if err != nil {
			return engine.Outcome{}, err
		}
		state, err := game.State()
		if err != nil {
			return engine.Outcome{}, err
		}

		ev := engine.Continue()
		if len(prompt.Options) > 0 {
			ev = engine.Choose(p.Choose(ctx, state, prompt))
		}
		out, err := game.Submit(ev)
		if err != nil {
			return engine.Outcome{}, err
		}
		if out.Ended {
			return out, nil
		}
	}
	return engine.Outcome{}, fmt.Errorf("no ending after %d steps", maxSteps)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
