package actions

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Argument keys that carry calendar dates and get normalized before
// validation. Anything else passes through untouched.
var dateArgKeys = []string{"birth_date", "start_date", "slaughter_date"}

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
)

// NormalizeDate rewrites common human date spellings to YYYY-MM-DD. Values it
// cannot interpret come back unchanged so schema validation reports them.
func NormalizeDate(raw string) string {
	value := strings.TrimSpace(raw)
	switch strings.ToLower(value) {
	case "hoy", "today":
		return time.Now().Format("2006-01-02")
	case "ayer", "yesterday":
		return time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	}
	if isoDateRe.MatchString(value) {
		return value
	}
	m := slashDateRe.FindStringSubmatch(value)
	if m == nil {
		return raw
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		if year >= 70 {
			year += 1900
		} else {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return raw
	}
	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if candidate.Day() != day || candidate.Month() != time.Month(month) {
		return raw
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// NormalizeDateArgs applies NormalizeDate to the known date keys of a raw
// argument object. Malformed JSON is returned as-is for the validator to
// reject.
func NormalizeDateArgs(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	args := map[string]any{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return raw
	}
	changed := false
	for _, key := range dateArgKeys {
		value, ok := args[key].(string)
		if !ok {
			continue
		}
		if normalized := NormalizeDate(value); normalized != value {
			args[key] = normalized
			changed = true
		}
	}
	if !changed {
		return raw
	}
	out, err := json.Marshal(args)
	if err != nil {
		return raw
	}
	return out
}
