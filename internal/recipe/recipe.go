// Package recipe turns the free-text recipe fields edited in the CMS into the
// shapes the recipe card renders.
package recipe

import (
	"math"
	"regexp"
	"strings"
)

const maxStars = 5

// SplitLines breaks a textarea value into its non-blank lines, trimmed.
func SplitLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Stars is a five-star rating broken down for display.
type Stars struct {
	Rating float64
	Count  int
	Full   int
	Half   bool
	Empty  int
}

// StarsFor splits rating into full, half and empty stars out of five. Any
// fractional part counts as one half star.
func StarsFor(rating float64, count int) Stars {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	if rating > maxStars {
		rating = maxStars
	}
	full := int(math.Floor(rating))
	half := rating-float64(full) > 0
	empty := maxStars - full
	if half {
		empty--
	}
	return Stars{Rating: rating, Count: count, Full: full, Half: half, Empty: empty}
}

// FullRange and EmptyRange let templates range over the star counts.
func (s Stars) FullRange() []struct{} { return make([]struct{}, s.Full) }

func (s Stars) EmptyRange() []struct{} { return make([]struct{}, s.Empty) }

// The leading group keeps a match from starting inside a larger number.
var durationPart = regexp.MustCompile(`(?i)(?:^|[^\d.])(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)\b`)

// ISODuration converts CMS durations such as "20 minutes", "1 hour 15 mins"
// or "1.5 hours" into ISO 8601 ("PT20M", "PT1H15M", "PT1.5H"). Unrecognised
// input yields "".
func ISODuration(text string) string {
	matches := durationPart.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("PT")
	for _, m := range matches {
		b.WriteString(m[1])
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			b.WriteByte('H')
		} else {
			b.WriteByte('M')
		}
	}
	return b.String()
}
