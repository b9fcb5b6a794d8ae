package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimecode parses a human-friendly time expression into seconds.
// Accepted forms: bare seconds ("90", "90.5"), Go duration units ("90s",
// "2m", "1h2m3s"), and colon timecodes ("1:23", "1:23:45", "1:23:45.5").
// Negative values are rejected; an inpoint is always an offset from the
// start of the file.
func ParseTimecode(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time expression")
	}

	if seconds, err := strconv.ParseFloat(s, 64); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("negative time expression")
		}
		return seconds, nil
	}

	if strings.Contains(s, ":") {
		return parseColonTimecode(s)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unrecognized time expression")
	}
	if d < 0 {
		return 0, fmt.Errorf("negative time expression")
	}
	return d.Seconds(), nil
}

// parseColonTimecode handles MM:SS and HH:MM:SS, with an optional fractional
// seconds field.
func parseColonTimecode(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("expected MM:SS or HH:MM:SS")
	}

	var total float64
	for i, part := range parts {
		last := i == len(parts)-1

		var value float64
		if last {
			seconds, err := strconv.ParseFloat(part, 64)
			if err != nil || seconds < 0 || seconds >= 60 {
				return 0, fmt.Errorf("invalid seconds field %q", part)
			}
			value = seconds
		} else {
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("invalid field %q", part)
			}
			// Minutes must stay under 60 when an hours field is present.
			if len(parts) == 3 && i == 1 && n >= 60 {
				return 0, fmt.Errorf("invalid minutes field %q", part)
			}
			value = float64(n)
		}

		total = total*60 + value
	}

	return total, nil
}
