package prompt

import (
	"strings"
	"testing"

	"github.com/pitchwheel/pitch-api/internal/wheel"
)

func sampleInput() *wheel.Input {
	return &wheel.Input{
		Characters: []string{"A Grizzled Detective", "A Rookie Android"},
		Locations:  []string{"Mars Colony"},
		Genres:     []string{"Noir", "Sci-Fi"},
		Creatives:  []string{"Wes Anderson"},
	}
}

func TestNewBuilder(t *testing.T) {
	if NewBuilder() == nil {
		t.Fatal("NewBuilder() returned nil")
	}
}

func TestBuildPitchPromptDeterministic(t *testing.T) {
	builder := NewBuilder()

	first := builder.BuildPitchPrompt(sampleInput())
	for i := 0; i < 10; i++ {
		if got := builder.BuildPitchPrompt(sampleInput()); got != first {
			t.Fatalf("BuildPitchPrompt() is not deterministic: call %d differed", i)
		}
	}
}

func TestBuildPitchPromptContainsJoinedLists(t *testing.T) {
	prompt := NewBuilder().BuildPitchPrompt(sampleInput())

	for _, want := range []string{
		"Noir, Sci-Fi",
		"A Grizzled Detective, A Rookie Android",
		"Mars Colony",
		"Wes Anderson",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("BuildPitchPrompt() missing %q", want)
		}
	}
}

func TestBuildPitchPromptSectionOrder(t *testing.T) {
	prompt := NewBuilder().BuildPitchPrompt(sampleInput())

	genreIdx := strings.Index(prompt, "Noir, Sci-Fi")
	charIdx := strings.Index(prompt, "A Grizzled Detective")
	locIdx := strings.Index(prompt, "Mars Colony")
	creativeIdx := strings.Index(prompt, "Wes Anderson")

	if genreIdx < 0 || charIdx < 0 || locIdx < 0 || creativeIdx < 0 {
		t.Fatal("BuildPitchPrompt() missing a section")
	}
	if !(genreIdx < charIdx && charIdx < locIdx && locIdx < creativeIdx) {
		t.Errorf("sections out of order: genres=%d characters=%d locations=%d creatives=%d",
			genreIdx, charIdx, locIdx, creativeIdx)
	}
}

func TestBuildPitchPromptEndsWithCoherenceInstruction(t *testing.T) {
	prompt := NewBuilder().BuildPitchPrompt(sampleInput())

	if !strings.HasSuffix(prompt, "Ensure the plot makes sense despite the chaotic mix.") {
		t.Errorf("BuildPitchPrompt() does not end with the coherence instruction: %q", prompt)
	}
}
