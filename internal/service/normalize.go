package service

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for wire timestamps, tried in order. Clients send
// ISO-ish strings with varying precision and offset notation.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// cleanDate parses a wire date string and localizes it to the server's
// configured zone. Unparseable input fails the whole batch.
func cleanDate(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrMalformedRecord, raw)
}

// cleanContent strips the first line of a raw content blob. The wire
// format duplicates the title as line one of the content; only the body
// after the first line break is stored. Content without a line break is
// kept as-is.
func cleanContent(content string) string {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		return content[i+1:]
	}
	return content
}

// parseStartupFlag maps the wire's stringly boolean: exactly "true" is
// true, anything else is false. Never a parse error.
func parseStartupFlag(value string) bool {
	return value == "true"
}
