package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Donny208/Hardware-Scrape/app/database"
	"github.com/Donny208/Hardware-Scrape/app/feed"
	"github.com/Donny208/Hardware-Scrape/app/intake"
	"github.com/Donny208/Hardware-Scrape/app/notify"
)

func strPtr(s string) *string { return &s }

type fakeClient struct {
	mu      sync.Mutex
	posts   map[string][]feed.Post
	err     map[string]error
	fetched []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		posts: make(map[string][]feed.Post),
		err:   make(map[string]error),
	}
}

func (c *fakeClient) FetchLatest(ctx context.Context, source feed.Source, count int) ([]feed.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetched = append(c.fetched, source.ID)
	if err := c.err[source.ID]; err != nil {
		return nil, err
	}
	posts := c.posts[source.ID]
	if len(posts) > count {
		posts = posts[:count]
	}
	return posts, nil
}

type recordingSender struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (s *recordingSender) Send(ctx context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) sent() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Message(nil), s.messages...)
}

type failingIngester struct{}

func (failingIngester) Ingest(context.Context, feed.Post) (intake.Result, error) {
	return intake.Result{}, errors.New("database is locked")
}

type store struct {
	users database.UserRepository
	posts database.PostRepository
}

func openStore(t *testing.T) store {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, _, err = database.RunMigrations(db)
	require.NoError(t, err)

	return store{
		users: database.NewUserRepository(db),
		posts: database.NewPostRepository(db),
	}
}

func loadConfigCache(t *testing.T, sources, keywords string) *feed.ConfigCache {
	t.Helper()

	dir := t.TempDir()
	sourcesFile := filepath.Join(dir, "sources.yml")
	keywordsFile := filepath.Join(dir, "keywords.yml")
	require.NoError(t, os.WriteFile(sourcesFile, []byte(sources), 0644))
	require.NoError(t, os.WriteFile(keywordsFile, []byte(keywords), 0644))

	cc := feed.NewConfigCache(sourcesFile, keywordsFile)
	require.NoError(t, cc.Run())
	return cc
}
