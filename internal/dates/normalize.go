// Package dates turns the abbreviated Spanish day labels of the listing
// pages ("05 MAR", "12 dic.") into long-form dates.
//
// The labels carry no year. The year of the normalization instant is used,
// so a January label scraped in December is dated to the wrong year.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Separators include U+00A0, which is what &nbsp; decodes to.
var dayMonthPattern = regexp.MustCompile(`(?i)^(\d{1,2})[\s\p{Zs}]+([a-z]{3})\.?$`)

var monthAbbrevs = map[string]time.Month{
	"ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dic": time.December,
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Normalize parses raw against the year of now. The boolean is false for
// empty input, text that is not "<day> <mon>", an unknown month abbreviation
// or a day the month does not have.
func Normalize(raw string, now time.Time) (string, bool) {
	t, ok := Parse(raw, now)
	if !ok {
		return "", false
	}
	return Format(t), true
}

// Parse is Normalize without the rendering step.
func Parse(raw string, now time.Time) (time.Time, bool) {
	clean := strings.TrimSpace(strings.NewReplacer("\r", "", "\n", "").Replace(raw))
	if clean == "" {
		return time.Time{}, false
	}

	m := dayMonthPattern.FindStringSubmatch(clean)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := monthAbbrevs[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow ("31 feb" -> 3 March); reject it
	if t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// Format renders t as "D de MMMM de YYYY".
func Format(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}
