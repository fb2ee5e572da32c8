package feed

import (
	"context"
	"fmt"
)

// Client fetches the most recent posts of a source, newest first.
type Client interface {
	FetchLatest(ctx context.Context, source Source, count int) ([]Post, error)
}

// MultiClient routes each source to the client registered for its kind.
type MultiClient struct {
	clients map[SourceKind]Client
}

func NewMultiClient() *MultiClient {
	return &MultiClient{clients: make(map[SourceKind]Client)}
}

func (m *MultiClient) Register(kind SourceKind, client Client) {
	m.clients[kind] = client
}

func (m *MultiClient) FetchLatest(ctx context.Context, source Source, count int) ([]Post, error) {
	client, ok := m.clients[source.Kind]
	if !ok {
		return nil, fmt.Errorf("no client registered for %s sources", source.Kind)
	}
	return client.FetchLatest(ctx, source, count)
}
