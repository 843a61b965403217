package filter

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
)

// Date layouts used by the API
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// helperFunctions creates the static helper functions used during compilation
func helperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		if t.IsZero() {
			return 0
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = parseDate
	env["now"] = time.Now

	// String helpers
	env["contains"] = func(v any, substr string) bool {
		return strings.Contains(strings.ToLower(toString(v)), strings.ToLower(substr))
	}
	env["startsWith"] = func(v any, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(toString(v)), strings.ToLower(prefix))
	}
	env["endsWith"] = func(v any, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(toString(v)), strings.ToLower(suffix))
	}
	env["lower"] = func(v any) string { return strings.ToLower(toString(v)) }
	env["upper"] = func(v any) string { return strings.ToUpper(toString(v)) }

	// The API sends most numbers as strings
	env["num"] = toNumber
}

// runtimeEnvironment exposes the row fields at top level and as "row"
func runtimeEnvironment(row Row) map[string]any {
	env := make(map[string]any, len(row)+16)
	maps.Copy(env, row)
	env["row"] = map[string]any(row)
	addHelperFunctions(env)
	return env
}

func parseDate(v any) time.Time {
	s := strings.TrimSpace(toString(v))
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
