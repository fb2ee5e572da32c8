package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

const (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL   = "https://oauth.reddit.com"
)

var _ Client = (*RedditClient)(nil)

type RedditCredentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

// RedditClient lists subreddit posts through the OAuth API of a script app.
type RedditClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewRedditClient authenticates with the password grant. The token source
// logs in again whenever the current token expires, since script apps
// receive no refresh token.
func NewRedditClient(base *http.Client, creds RedditCredentials) *RedditClient {
	return newRedditClient(base, creds, redditTokenURL, redditAPIURL)
}

func newRedditClient(base *http.Client, creds RedditCredentials, tokenURL, apiURL string) *RedditClient {
	transport := &userAgentTransport{userAgent: creds.UserAgent, base: base.Transport}
	authClient := &http.Client{Transport: transport, Timeout: base.Timeout}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	source := oauth2.ReuseTokenSource(nil, &passwordTokenSource{
		conf:     conf,
		client:   authClient,
		username: creds.Username,
		password: creds.Password,
	})

	return &RedditClient{
		apiURL: apiURL,
		httpClient: &http.Client{
			Transport: &oauth2.Transport{Source: source, Base: transport},
			Timeout:   base.Timeout,
		},
	}
}

func (c *RedditClient) FetchLatest(ctx context.Context, source Source, count int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/r/%s/new?%s", c.apiURL, url.PathEscape(source.ID), url.Values{
		"limit":    {strconv.Itoa(count)},
		"raw_json": {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subreddit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		posts = append(posts, child.Data.toPost(source.ID))
	}

	return posts, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Kind string           `json:"kind"`
			Data redditSubmission `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditSubmission struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Selftext        string  `json:"selftext"`
	Author          string  `json:"author"`
	AuthorFlairText *string `json:"author_flair_text"`
	LinkFlairText   *string `json:"link_flair_text"`
	URL             string  `json:"url"`
	Permalink       string  `json:"permalink"`
	CreatedUTC      float64 `json:"created_utc"`
}

func (s redditSubmission) toPost(sourceID string) Post {
	return Post{
		ExternalID:  s.ID,
		SourceID:    sourceID,
		Title:       s.Title,
		Body:        s.Selftext,
		Author:      s.Author,
		AuthorBadge: s.AuthorFlairText,
		Tag:         s.LinkFlairText,
		URL:         s.URL,
		Permalink:   s.Permalink,
		CreatedUTC:  s.CreatedUTC,
	}
}

// passwordTokenSource performs the resource owner password grant on every
// call; wrap it in oauth2.ReuseTokenSource to only log in on expiry.
type passwordTokenSource struct {
	conf     *oauth2.Config
	client   *http.Client
	username string
	password string
}

func (s *passwordTokenSource) Token() (*oauth2.Token, error) {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.client)
	token, err := s.conf.PasswordCredentialsToken(ctx, s.username, s.password)
	if err != nil {
		return nil, fmt.Errorf("failed to log into reddit: %w", err)
	}
	return token, nil
}

// reddit rejects requests without a descriptive User-Agent.
type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return base.RoundTrip(clone)
}
