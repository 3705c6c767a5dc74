package exporter

import (
	"strconv"
	"time"
)

// DateLayout is used for every date written as text
const DateLayout = "2006-01-02"

// formatFloat formats a float64 with the fewest digits that round-trip
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatCell renders a frame cell as text. Null is the empty string.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return formatInt(val)
	case float64:
		return formatFloat(val)
	case time.Time:
		return val.Format(DateLayout)
	default:
		return ""
	}
}

// formatRow renders a frame row as CSV record
func formatRow(row []any) []string {
	record := make([]string, len(row))
	for i, v := range row {
		record[i] = formatCell(v)
	}
	return record
}
