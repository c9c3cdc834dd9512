package prompt

import (
	"fmt"
	"strings"

	"github.com/pitchwheel/pitch-api/internal/wheel"
)

// Builder builds the user prompt for pitch generation
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildPitchPrompt renders validated wheel input into the generation
// prompt. Deterministic: identical input yields a byte-identical
// prompt. List order is preserved; sections appear as genres,
// characters, locations, creatives, followed by the coherence
// instruction.
func (b *Builder) BuildPitchPrompt(in *wheel.Input) string {
	genreStr := strings.Join(in.Genres, ", ")
	charStr := strings.Join(in.Characters, ", ")
	locStr := strings.Join(in.Locations, ", ")
	creativeStr := strings.Join(in.Creatives, ", ")

	return fmt.Sprintf(
		"Create a movie pitch based on this specific combination:\n"+
			"- Mix these Genres: %s\n"+
			"- Featuring these Characters: %s\n"+
			"- Set in these Locations: %s\n"+
			"- In the style of: %s\n\n"+
			"Ensure the plot makes sense despite the chaotic mix.",
		genreStr, charStr, locStr, creativeStr,
	)
}
