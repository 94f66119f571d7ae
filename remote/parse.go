package remote

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	listSep   = regexp.MustCompile(`[\s,]+`)
	clockTime = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// Layouts the sheet has been seen to emit for time cells.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006, 15:04:05",
	"02.01.2006 15:04:05",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// ParseList turns a relation cell into ids. Arrays, numbers and strings
// separated by commas or whitespace are all accepted.
func ParseList(v interface{}) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case []interface{}:
		for _, item := range t {
			if s := strings.TrimSpace(String(item)); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	default:
		for _, s := range listSep.Split(String(t), -1) {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// ParseTime normalizes a time cell to HH:MM. Full date-times are converted to
// loc first; anything else falls back to the first H:MM found in the text.
func ParseTime(v interface{}, loc *time.Location) (string, bool) {
	raw := strings.TrimSpace(String(v))
	if raw == "" {
		return "", false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			t = t.In(loc)
			return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()), true
		}
	}
	cleaned := strings.NewReplacer("'", "", `"`, "").Replace(raw)
	m := clockTime.FindStringSubmatch(cleaned)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// String renders a loosely typed cell as text. Whole numbers lose their
// fraction so 101.0 and "101" become the same id.
func String(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := t.Float64(); err == nil && f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Bool is true for a JSON true or the text "true".
func Bool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	default:
		return strings.EqualFold(String(v), "true")
	}
}

// Float reads a number cell; blanks and junk read as zero.
func Float(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	}
	s := strings.Replace(String(v), ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Int reads a whole-number cell, truncating fractions.
func Int(v interface{}) int {
	return int(Float(v))
}
