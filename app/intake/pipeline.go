package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Donny208/Hardware-Scrape/app/database"
	"github.com/Donny208/Hardware-Scrape/app/feed"
	"github.com/Donny208/Hardware-Scrape/app/parser"
)

// SellingTag marks a post whose author is selling the [H] side.
const SellingTag = "SELLING"

// Last representable second of year 9999.
const maxEpochSeconds = 253402300799

var ErrInvalidTimestamp = errors.New("invalid timestamp")

type Status string

const (
	StatusStored  Status = "stored"
	StatusSkipped Status = "skipped"
)

const (
	ReasonDuplicate      = "duplicate"
	ReasonMalformedTitle = "malformed title"
	ReasonMissingAuthor  = "missing author"
)

// Result is the outcome of a successful Ingest call. A failed ingestion is
// reported through the error instead.
type Result struct {
	Status Status
	Reason string // set for StatusSkipped
	UserID int64  // zero unless the author was resolved
}

func (r Result) Stored() bool {
	return r.Status == StatusStored
}

func stored(userID int64) Result {
	return Result{Status: StatusStored, UserID: userID}
}

func skipped(reason string, userID int64) Result {
	return Result{Status: StatusSkipped, Reason: reason, UserID: userID}
}

// Pipeline turns a candidate post into a stored post and keeps the author's
// trade count current.
type Pipeline struct {
	users database.UserRepository
	posts database.PostRepository
}

func NewPipeline(users database.UserRepository, posts database.PostRepository) *Pipeline {
	return &Pipeline{
		users: users,
		posts: posts,
	}
}

// Ingest stores post once. A post that is already stored, or whose title does
// not follow the [region] [H] ... [W] ... grammar, is skipped. The author row
// is written before the post, so it survives a later failure.
func (p *Pipeline) Ingest(ctx context.Context, post feed.Post) (Result, error) {
	exists, err := p.posts.Exists(ctx, post.ExternalID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check for duplicate: %w", err)
	}
	if exists {
		return skipped(ReasonDuplicate, 0), nil
	}

	title, err := parser.ParseTitle(post.Title)
	if err != nil {
		if errors.Is(err, parser.ErrMalformedTitle) {
			return skipped(ReasonMalformedTitle, 0), nil
		}
		return Result{}, fmt.Errorf("failed to parse title: %w", err)
	}

	author := strings.TrimSpace(post.Author)
	if author == "" {
		return skipped(ReasonMissingAuthor, 0), nil
	}

	trades := parser.ExtractTrades(post.AuthorBadge)

	userID, err := p.users.Resolve(ctx, author, trades)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve user %s: %w", author, err)
	}

	postedAt, err := EpochToTime(post.CreatedUTC)
	if err != nil {
		return Result{}, err
	}

	record := &database.Post{
		ExternalID: post.ExternalID,
		SourceID:   post.SourceID,
		Permalink:  post.Permalink,
		UserID:     userID,
		PostedAt:   postedAt,
		Country:    title.Country,
		Region:     title.Region,
		HaveText:   title.Have,
		WantText:   title.Want,
		IsSelling:  post.Tag != nil && *post.Tag == SellingTag,
		Body:       post.Body,
	}

	if err := p.posts.Insert(ctx, record); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			slog.Debug("Post stored concurrently", "source", post.SourceID, "post_id", post.ExternalID)
			return skipped(ReasonDuplicate, userID), nil
		}
		return Result{}, fmt.Errorf("failed to store post: %w", err)
	}

	return stored(userID), nil
}

// EpochToTime converts feed epoch seconds to a UTC time, keeping millisecond
// precision. Values outside [0, year 9999] are rejected rather than wrapped.
func EpochToTime(epoch float64) (time.Time, error) {
	if math.IsNaN(epoch) || math.IsInf(epoch, 0) || epoch < 0 || epoch > maxEpochSeconds {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, epoch)
	}

	return time.UnixMilli(int64(math.Round(epoch * 1000))).UTC(), nil
}
