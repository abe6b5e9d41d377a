package utils

import (
	"fmt"
	"strconv"
)

// ToString converts the loosely-typed cell values delivered by the
// spreadsheet reader to their string form. JSON numbers arrive as float64;
// whole floats render without a decimal point. nil becomes the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToInt converts a cell value to int, returning 0 for anything unparsable.
// Callers that need to distinguish malformed values parse the string form
// explicitly; this helper is for values already validated.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		i, _ := strconv.Atoi(v)
		return i
	default:
		i, _ := strconv.Atoi(ToString(v))
		return i
	}
}
