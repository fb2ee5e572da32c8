package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Country is "USA"; region is a two letter state code or the NYC exception.
// Have takes everything up to the last [W] and want runs to the end of the title.
var titlePattern = regexp.MustCompile(`(?i)^\[(usa)[\s\p{Z}]*-[\s\p{Z}]*([a-z]{2}|nyc)\][\s\p{Z}]*\[H\][\s\p{Z}]*(.*)\[W\][\s\p{Z}]*(.*)$`)

var tradesPattern = regexp.MustCompile(`Trades:[\s\p{Z}]*(\d+)`)

func ParseTitle(title string) (Title, error) {
	m := titlePattern.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return Title{}, ErrMalformedTitle
	}

	return Title{
		Country: strings.ToUpper(m[1]),
		Region:  strings.ToUpper(m[2]),
		Have:    strings.TrimSpace(m[3]),
		Want:    strings.TrimSpace(m[4]),
	}, nil
}

// ExtractTrades reads the "Trades: N" count from a user's flair text.
// A nil badge, a badge without the label, or a count that does not fit
// the store column all yield UnknownTrades.
func ExtractTrades(badge *string) int {
	if badge == nil {
		return UnknownTrades
	}

	m := tradesPattern.FindStringSubmatch(*badge)
	if m == nil {
		return UnknownTrades
	}

	n, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return UnknownTrades
	}
	return int(n)
}
