package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssData = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Deals</title>
    <link>https://example.com</link>
    <description>Hardware deals</description>
    <item>
      <title>[USA-TX][H] rtx 3080 [W] paypal</title>
      <link>https://example.com/deals/1</link>
      <description>&lt;p&gt;Barely used&lt;/p&gt;&lt;p&gt;Local pickup&lt;/p&gt;</description>
      <guid>deal-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <author>seller@example.com (Seller)</author>
      <category>SELLING</category>
      <category>GPU</category>
    </item>
    <item>
      <title>No guid</title>
      <link>https://example.com/deals/2</link>
      <description>Second</description>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No date</title>
      <link>https://example.com/deals/3</link>
      <guid>deal-3</guid>
    </item>
  </channel>
</rss>`

const atomData = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom deals</title>
  <id>urn:deals</id>
  <updated>2023-07-03T12:00:00Z</updated>
  <entry>
    <title>[USA-NYC][H] monitor [W] cash</title>
    <id>urn:deal:1</id>
    <link href="https://example.com/atom/1"/>
    <updated>2023-07-03T12:00:00Z</updated>
    <author><name>atom-seller</name></author>
    <category term="BUYING"/>
    <content type="html">&lt;div&gt;27 inch&lt;/div&gt;</content>
  </entry>
</feed>`

func TestRSSClient_ParseRSS2(t *testing.T) {
	client := NewRSSClient(http.DefaultClient, "test-agent")
	source := Source{ID: "deals", Kind: SourceKindRSS}

	posts, err := client.Parse(source, []byte(rssData), 0)
	require.NoError(t, err)
	require.Len(t, posts, 2, "item without a date is skipped")

	first := posts[0]
	assert.Equal(t, "deal-1", first.ExternalID)
	assert.Equal(t, "deals", first.SourceID)
	assert.Equal(t, "[USA-TX][H] rtx 3080 [W] paypal", first.Title)
	assert.Equal(t, "Barely used Local pickup", first.Body)
	assert.Equal(t, "https://example.com/deals/1", first.URL)
	assert.Equal(t, "https://example.com/deals/1", first.Permalink)
	assert.Equal(t, "Seller", first.Author)
	assert.Nil(t, first.AuthorBadge)
	require.NotNil(t, first.Tag)
	assert.Equal(t, "SELLING", *first.Tag)
	assert.Equal(t, float64(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC).Unix()), first.CreatedUTC)

	second := posts[1]
	assert.Equal(t, "https://example.com/deals/2", second.ExternalID, "link stands in for a missing guid")
	assert.Nil(t, second.Tag)
	assert.Empty(t, second.Author)
}

func TestRSSClient_ParseAtom(t *testing.T) {
	client := NewRSSClient(http.DefaultClient, "test-agent")

	posts, err := client.Parse(Source{ID: "atom"}, []byte(atomData), 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, "urn:deal:1", post.ExternalID)
	assert.Equal(t, "27 inch", post.Body)
	assert.Equal(t, "atom-seller", post.Author)
	require.NotNil(t, post.Tag)
	assert.Equal(t, "BUYING", *post.Tag)
	assert.Equal(t, float64(time.Date(2023, 7, 3, 12, 0, 0, 0, time.UTC).Unix()), post.CreatedUTC)
}

func TestRSSClient_ParseLimitsCount(t *testing.T) {
	client := NewRSSClient(http.DefaultClient, "test-agent")

	posts, err := client.Parse(Source{ID: "deals"}, []byte(rssData), 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "deal-1", posts[0].ExternalID)
}

func TestRSSClient_ParseInvalid(t *testing.T) {
	client := NewRSSClient(http.DefaultClient, "test-agent")

	_, err := client.Parse(Source{ID: "deals"}, []byte("not a feed"), 0)
	assert.ErrorContains(t, err, "failed to parse feed")
}

func TestRSSClient_FetchLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		if r.URL.Path != "/feed.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssData)
	}))
	defer server.Close()

	client := NewRSSClient(&http.Client{Timeout: 5 * time.Second}, "test-agent")

	posts, err := client.FetchLatest(context.Background(), Source{ID: "deals", URL: server.URL + "/feed.xml"}, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	_, err = client.FetchLatest(context.Background(), Source{ID: "deals", URL: server.URL + "/missing.xml"}, 10)
	assert.ErrorContains(t, err, "HTTP error: 404")
}
