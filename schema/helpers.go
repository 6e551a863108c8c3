package schema

import (
	"fmt"
	"strings"
)

// SummarizeNames joins up to limit names and appends "+N more" for the rest.
// Blank names are skipped.
func SummarizeNames(names []string, limit int) string {
	var kept []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	if limit <= 0 || len(kept) <= limit {
		return strings.Join(kept, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(kept[:limit], ", "), len(kept)-limit)
}

// EntityNames returns the display names of entities, falling back to the id.
func EntityNames(entities []Entity) []string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		if e.Name != "" {
			names = append(names, e.Name)
		} else {
			names = append(names, e.ID)
		}
	}
	return names
}

// NormalizeName trims a user supplied object name. Inner spaces are kept.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
