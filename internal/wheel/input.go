// Package wheel holds the spin-wheel input model and its validation
// rules. Validation is pure: it performs no I/O and reports the first
// failing field/element it encounters (fields are checked in
// declaration order: characters, locations, genres, creatives).
package wheel

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxListLength caps how many entries each wheel list may carry
	MaxListLength = 5
	// MaxItemLength caps the trimmed length of a single entry,
	// counted in characters, not bytes
	MaxItemLength = 100
)

// Rule identifies which validation rule a field violated
type Rule string

const (
	RuleTooManyItems Rule = "TooManyItems"
	RuleEmptyList    Rule = "EmptyList"
	RuleItemTooLong  Rule = "ItemTooLong"
	RuleEmptyItem    Rule = "EmptyItem"
)

// ValidationError reports the offending field and the rule it broke.
// It is always caller-caused and safe to return verbatim.
type ValidationError struct {
	Field string `json:"field"`
	Rule  Rule   `json:"rule"`
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case RuleTooManyItems:
		return fmt.Sprintf("%s: list cannot have more than %d items", e.Field, MaxListLength)
	case RuleEmptyList:
		return fmt.Sprintf("%s: list cannot be empty", e.Field)
	case RuleItemTooLong:
		return fmt.Sprintf("%s: each item must be %d characters or less", e.Field, MaxItemLength)
	case RuleEmptyItem:
		return fmt.Sprintf("%s: items cannot be empty or whitespace only", e.Field)
	}
	return fmt.Sprintf("%s: invalid value", e.Field)
}

// Input carries the four wheel lists for one request. It lives for a
// single request: constructed from the body, validated once, consumed
// by the prompt builder, then discarded.
type Input struct {
	Characters []string `json:"characters"`
	Locations  []string `json:"locations"`
	Genres     []string `json:"genres"`
	Creatives  []string `json:"creatives"`
}

// Validate checks all four lists and normalizes their elements to
// their trimmed forms in place, preserving order. On failure the
// input is left untouched and a *ValidationError identifies the
// first offending field and rule.
func (in *Input) Validate() error {
	fields := []struct {
		name  string
		items []string
	}{
		{"characters", in.Characters},
		{"locations", in.Locations},
		{"genres", in.Genres},
		{"creatives", in.Creatives},
	}

	trimmed := make([][]string, len(fields))
	for i, f := range fields {
		normalized, err := validateList(f.name, f.items)
		if err != nil {
			return err
		}
		trimmed[i] = normalized
	}

	// All fields passed; apply normalization atomically.
	in.Characters = trimmed[0]
	in.Locations = trimmed[1]
	in.Genres = trimmed[2]
	in.Creatives = trimmed[3]
	return nil
}

func validateList(field string, items []string) ([]string, error) {
	if len(items) > MaxListLength {
		return nil, &ValidationError{Field: field, Rule: RuleTooManyItems}
	}
	if len(items) == 0 {
		return nil, &ValidationError{Field: field, Rule: RuleEmptyList}
	}

	normalized := make([]string, len(items))
	for i, item := range items {
		t := strings.TrimSpace(item)
		if utf8.RuneCountInString(t) > MaxItemLength {
			return nil, &ValidationError{Field: field, Rule: RuleItemTooLong}
		}
		if t == "" {
			return nil, &ValidationError{Field: field, Rule: RuleEmptyItem}
		}
		normalized[i] = t
	}
	return normalized, nil
}
