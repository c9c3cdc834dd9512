package models

// MoviePitch is the structured pitch produced for one request.
// It is only ever populated from the LLM's structured output;
// the core logic never constructs one by hand.
type MoviePitch struct {
	Title   string `json:"title"`   // A catchy title for the movie
	Tagline string `json:"tagline"` // A short, memorable tagline for the poster
	Pitch   string `json:"pitch"`   // A 1-3 sentence pitch of the plot
}
