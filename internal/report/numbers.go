package report

import (
	"fmt"
	"strconv"
	"strings"
)

var numberCleaner = strings.NewReplacer("$", "", ",", "")

// ParseNumber coerces an arbitrary cell value into a float64. Absent and
// empty values, and values that do not parse after stripping currency
// formatting, all become 0. It never fails.
func ParseNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseNumericString(v)
	default:
		return parseNumericString(fmt.Sprint(v))
	}
}

func parseNumericString(s string) float64 {
	cleaned := strings.TrimSpace(numberCleaner.Replace(s))
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}
