package process

import (
	"time"
)

// dateLayouts are tried in order for best-effort parsing of source-native
// timestamp strings. Layouts without a zone are assumed UTC, which is what
// the ATS APIs emit for naive timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
}

// zonedLayouts is the subset of dateLayouts that carries its own offset.
var zonedLayouts = map[string]bool{
	time.RFC3339Nano: true,
	time.RFC3339:     true,
	time.RFC1123Z:    true,
	time.RFC1123:     true,
}

// parseDate parses a source timestamp string into the given reference zone.
// Returns false when no layout matches; callers then skip freshness logic
// rather than guessing.
func parseDate(s string, ref *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		var t time.Time
		var err error
		if zonedLayouts[layout] {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.UTC)
		}
		if err == nil {
			return t.In(ref), true
		}
	}
	return time.Time{}, false
}
