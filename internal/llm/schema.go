package llm

// MoviePitchSchemaName is the schema name sent with structured-output
// requests.
const MoviePitchSchemaName = "movie_pitch"

// GetMoviePitchSchema returns the JSON schema for the structured
// pitch output. All three fields are required; providers are asked to
// produce nothing else.
func GetMoviePitchSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A catchy title for the movie",
			},
			"tagline": map[string]any{
				"type":        "string",
				"description": "A short, memorable tagline for the poster",
			},
			"pitch": map[string]any{
				"type":        "string",
				"description": "A 1-3 sentence pitch of the plot",
			},
		},
		"required":             []string{"title", "tagline", "pitch"},
		"additionalProperties": false,
	}
}
