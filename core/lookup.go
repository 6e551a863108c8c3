package core

import (
	"strings"

	"github.com/hycu-tools/check-hycu/schema"
	"github.com/rs/zerolog/log"
)

// findByID returns the entity whose id matches exactly. Duplicate ids are ambiguous.
func findByID(entities []schema.Entity, id string) (schema.Entity, error) {
	var matches []schema.Entity
	for _, e := range entities {
		if e.ID == id {
			matches = append(matches, e)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		log.Debug().Str("requested", id).Int("candidates", len(matches)).Msg("Ambiguous id")
	}
	return schema.Entity{}, &schema.NotFoundError{Name: id}
}

// findByName returns the entity with the given display name. A single exact match wins;
// otherwise a single case-insensitive match is accepted. Several matches at either
// level are ambiguous.
func findByName(entities []schema.Entity, name string) (schema.Entity, error) {
	var exact, folded []schema.Entity
	for _, e := range entities {
		switch {
		case e.Name == name:
			exact = append(exact, e)
		case strings.EqualFold(e.Name, name):
			folded = append(folded, e)
		}
	}

	candidates := exact
	if len(exact) == 0 {
		candidates = folded
	}
	switch len(candidates) {
	case 0:
		log.Debug().Str("requested", name).Strs("available", firstNames(entities, 5)).Msg("No match")
	case 1:
		if len(exact) == 0 {
			log.Debug().Str("requested", name).Str("matched", candidates[0].Name).Msg("Case-insensitive match")
		}
		return candidates[0], nil
	default:
		log.Debug().Str("requested", name).Int("candidates", len(candidates)).Msg("Ambiguous name")
	}
	return schema.Entity{}, &schema.NotFoundError{Name: name}
}

func firstNames(entities []schema.Entity, n int) []string {
	names := schema.EntityNames(entities)
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// displayName prefers the controller's spelling over the requested one.
func displayName(e schema.Entity, requested string) string {
	if e.Name != "" {
		return e.Name
	}
	return requested
}

// statusWord is the controller's own status word, falling back to the normalized one.
func statusWord(e schema.Entity) string {
	if e.RawStatus != "" {
		return e.RawStatus
	}
	if e.Status != "" {
		return string(e.Status)
	}
	return string(schema.StatusUnknown)
}
