package helper

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	KB int64 = 1024
	MB       = KB * 1024
	GB       = MB * 1024
	TB       = GB * 1024
)

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"KB": KB,
	"MB": MB,
	"GB": GB,
	"TB": TB,
}

// ParseSize converts a size string into a byte count. A bare number is taken
// as bytes; otherwise a unit suffix B/KB/MB/GB/TB is required, with binary
// multipliers (1KB = 1024). The unit is case-insensitive and may be separated
// from the number by spaces. Fractions are allowed ("1.5MB").
func ParseSize(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, errors.New("size is empty")
	}

	i := 0
	for i < len(trimmed) && (trimmed[i] >= '0' && trimmed[i] <= '9' || trimmed[i] == '.') {
		i++
	}

	number := trimmed[:i]
	unit := strings.ToUpper(strings.TrimSpace(trimmed[i:]))
	if number == "" {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unknown size unit %q in %q", unit, s)
	}

	bytes := value * float64(multiplier)
	if bytes > math.MaxInt64 {
		return 0, fmt.Errorf("size %q out of range", s)
	}

	return int64(math.Round(bytes)), nil
}

// FormatSize renders a byte count using the largest fitting unit, with at
// most one decimal place.
func FormatSize(bytes int64) string {
	format := func(value int64, unit int64, suffix string) string {
		v := math.Round(float64(value)/float64(unit)*10) / 10
		return strconv.FormatFloat(v, 'f', -1, 64) + suffix
	}

	switch {
	case bytes >= TB:
		return format(bytes, TB, "TB")
	case bytes >= GB:
		return format(bytes, GB, "GB")
	case bytes >= MB:
		return format(bytes, MB, "MB")
	case bytes >= KB:
		return format(bytes, KB, "KB")
	default:
		return strconv.FormatInt(bytes, 10) + "B"
	}
}
