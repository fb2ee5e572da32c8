package parser

import (
	"errors"
	"fmt"
)

// UnknownTrades is the trade count recorded when a badge carries no usable count.
const UnknownTrades = -1

var ErrMalformedTitle = errors.New("malformed title")

// Title holds the structured fields of a "[USA-XX] [H] ... [W] ..." listing title.
type Title struct {
	Country string
	Region  string
	Have    string
	Want    string
}

// String renders the title in canonical form. Parsing the result yields the same fields.
func (t Title) String() string {
	return fmt.Sprintf("[%s-%s] [H] %s [W] %s", t.Country, t.Region, t.Have, t.Want)
}
