package feed

import (
	"slices"
	"time"
)

// WindowBuffer absorbs skew between our clock and the feed's timestamps.
const WindowBuffer = 2500 * time.Millisecond

// InScope reports whether post belongs to the poll tick ending at now: it must
// be no older than interval plus WindowBuffer and carry one of the accepted tags.
// A post exactly on the age boundary is in scope.
func InScope(post Post, now time.Time, interval time.Duration, acceptedTags []string) bool {
	cutoff := float64(now.UnixMilli())/1000 - (interval + WindowBuffer).Seconds()
	if post.CreatedUTC < cutoff {
		return false
	}

	if post.Tag == nil {
		return false
	}
	return slices.Contains(acceptedTags, *post.Tag)
}
