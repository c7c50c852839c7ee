package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseISODuration converts an ISO-8601 duration as returned by the YouTube
// Data API (e.g. "PT4M13S", "PT1H2M", "PT45S") into whole seconds.
func ParseISODuration(s string) (int, error) {
	orig := s
	if !strings.HasPrefix(s, "PT") {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
	}
	s = strings.TrimPrefix(s, "PT")
	if s == "" {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
	}

	total := 0
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'H' || r == 'M' || r == 'S':
			if num == "" {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", orig, err)
			}
			switch r {
			case 'H':
				total += n * 3600
			case 'M':
				total += n * 60
			case 'S':
				total += n
			}
			num = ""
		default:
			return 0, fmt.Errorf("invalid ISO-8601 duration %q", orig)
		}
	}
	if num != "" {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q: trailing digits", orig)
	}

	return total, nil
}
