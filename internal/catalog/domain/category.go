package domain

import "strings"

// Fallbacks used when a supplier is absent from the master or a label is blank.
const (
	DefaultCategory  = "Other"
	DefaultRegion    = "Other"
	DefaultBasePrice = 50.0
)

// LabelOrDefault returns the trimmed label, or fallback when it is blank.
func LabelOrDefault(label, fallback string) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return fallback
}
