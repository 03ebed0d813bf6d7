// Package czdate parses the Czech genitive month names and date lines found
// in steno protocol titles and legislator biography captions.
package czdate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// months maps genitive Czech month names to month numbers.
var months = map[string]int{
	"ledna":     1,
	"února":     2,
	"března":    3,
	"dubna":     4,
	"května":    5,
	"června":    6,
	"července":  7,
	"srpna":     8,
	"září":      9,
	"října":     10,
	"listopadu": 11,
	"prosince":  12,
}

var titleDate = regexp.MustCompile(`Stenografický zápis \d+\. schůze, (\d+)\.\s(.*)\s(\d{4})`)

// Month resolves a genitive Czech month name to its 1-based number.
func Month(name string) (int, bool) {
	m, ok := months[strings.TrimSpace(name)]
	return m, ok
}

// FormatYMD renders a date as the compact yyyymmdd form used in file names
// and report rows.
func FormatYMD(year, month, day int) string {
	return fmt.Sprintf("%04d%02d%02d", year, month, day)
}

// FromTitle extracts the sitting date from a steno page title such as
// "Stenografický zápis 5. schůze, 3. února 2015" and returns it as yyyymmdd.
func FromTitle(title string) (string, error) {
	title = strings.ReplaceAll(title, " ", " ")
	m := titleDate.FindStringSubmatch(title)
	if m == nil {
		return "", fmt.Errorf("czdate: no date in title %q", title)
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("czdate: day in title %q: %w", title, err)
	}
	month, ok := Month(m[2])
	if !ok {
		return "", fmt.Errorf("czdate: unknown month %q in title %q", m[2], title)
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return "", fmt.Errorf("czdate: year in title %q: %w", title, err)
	}
	return FormatYMD(year, month, day), nil
}

// FromNumeric renders a numeric day/month/year triple, as matched in
// biography captions ("Narozen: 3. 2. 1960"), as yyyymmdd.
func FromNumeric(day, month, year string) (string, error) {
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return "", fmt.Errorf("czdate: day %q: %w", day, err)
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return "", fmt.Errorf("czdate: month %q: %w", month, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return "", fmt.Errorf("czdate: year %q: %w", year, err)
	}
	return FormatYMD(y, m, d), nil
}
