package sqlite

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// formatTime renders t as the RFC3339 UTC text stored in timestamp columns.
// Values in this form sort chronologically as strings.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// summaryKey identifies a summary by model and input text.
func summaryKey(model, text string) string {
	d := xxhash.New()
	_, _ = d.WriteString(model)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(text)
	return fmt.Sprintf("%016x", d.Sum64())
}
