package csvio

import "strings"

// splitLine splits one CSV line into trimmed fields using a quote-toggle
// state machine. Commas inside double-quoted fields are literal, and a
// doubled quote inside a quoted field is an escaped quote character.
func splitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// quoteField wraps s in double quotes, doubling any quote characters it
// contains. Empty strings stay empty: absent notes export as an empty
// column, not "".
func quoteField(s string) string {
	if s == "" {
		return ""
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
