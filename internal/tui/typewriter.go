package tui

// typewriter reveals a text one rune at a time.
type typewriter struct {
	target []rune
	shown  int
	// gen changes on every Set so that ticks scheduled for an older text
	// can be recognised and dropped.
	gen int
}

func (t *typewriter) Set(text string) {
	t.target = []rune(text)
	t.shown = 0
	t.gen++
}

// Advance reveals the next rune and reports whether any remain hidden.
func (t *typewriter) Advance() bool {
	if t.shown < len(t.target) {
		t.shown++
	}
	return t.shown < len(t.target)
}

func (t *typewriter) Finish() {
	t.shown = len(t.target)
}

func (t typewriter) Done() bool {
	return t.shown >= len(t.target)
}

func (t typewriter) View() string {
	return string(t.target[:t.shown])
}
