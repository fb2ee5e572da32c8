package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMarkdownV2(t *testing.T) {
	msg := Message{
		SourceID: "hardwareswap",
		Keyword:  "rtx 3080",
		URL:      "https://www.reddit.com/r/hardwareswap/comments/1abcde/usaca_h_cash_w_rtx_3080/",
	}

	assert.Equal(t,
		"__Filter Match in hardwareswap: rtx 3080__\n[Deal here](https://www.reddit.com/r/hardwareswap/comments/1abcde/usaca_h_cash_w_rtx_3080/)",
		FormatMarkdownV2(msg))
}

func TestFormatMarkdownV2_EscapesReservedCharacters(t *testing.T) {
	msg := Message{
		SourceID: "hardware_swap",
		Keyword:  "5800x3d (new!)",
		URL:      "https://example.com/a_(b)",
	}

	assert.Equal(t,
		`__Filter Match in hardware\_swap: 5800x3d \(new\!\)__`+"\n"+`[Deal here](https://example.com/a_(b\))`,
		FormatMarkdownV2(msg))
}

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a.b", `a\.b`},
		{"a-b+c=d", `a\-b\+c\=d`},
		{"[x]", `\[x\]`},
		{"*bold* _it_ ~s~ `c`", "\\*bold\\* \\_it\\_ \\~s\\~ \\`c\\`"},
		{`back\slash`, `back\\slash`},
		{"#1 > {2} | 3!", `\#1 \> \{2\} \| 3\!`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeMarkdownV2(tt.in))
		})
	}
}

const getMeResponse = `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"scrape","username":"scrape_bot"}}`

func newTelegramServer(t *testing.T, sendMessage http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/botsecret-token/getMe", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, getMeResponse)
	})
	mux.HandleFunc("/botsecret-token/sendMessage", sendMessage)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestTelegramSender_Send(t *testing.T) {
	var form url.Values
	server := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		form = r.PostForm

		fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
	})

	sender, err := newTelegramSender(&http.Client{Timeout: 5 * time.Second}, server.URL+"/bot%s/%s", "secret-token", "42")
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{SourceID: "widgets", Keyword: "rtx 3080", URL: "https://example.com/p"})
	require.NoError(t, err)

	assert.Equal(t, "42", form.Get("chat_id"))
	assert.Equal(t, "MarkdownV2", form.Get("parse_mode"))
	assert.Equal(t, "__Filter Match in widgets: rtx 3080__\n[Deal here](https://example.com/p)", form.Get("text"))
}

func TestTelegramSender_ChannelChatID(t *testing.T) {
	var chatID string
	server := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		chatID = r.PostForm.Get("chat_id")
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-100,"type":"channel"}}}`)
	})

	sender, err := newTelegramSender(&http.Client{Timeout: 5 * time.Second}, server.URL+"/bot%s/%s", "secret-token", "@hardware_deals")
	require.NoError(t, err)

	require.NoError(t, sender.Send(context.Background(), Message{SourceID: "widgets", Keyword: "gpu"}))
	assert.Equal(t, "@hardware_deals", chatID)
}

func TestTelegramSender_APIError(t *testing.T) {
	server := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: can't parse entities"}`)
	})

	sender, err := newTelegramSender(&http.Client{Timeout: 5 * time.Second}, server.URL+"/bot%s/%s", "secret-token", "42")
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{SourceID: "widgets", Keyword: "gpu"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "can't parse entities")
}

func TestTelegramSender_InvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer server.Close()

	_, err := newTelegramSender(&http.Client{Timeout: 5 * time.Second}, server.URL+"/bot%s/%s", "secret-token", "42")
	assert.ErrorContains(t, err, "Unauthorized")
}

func TestTelegramSender_RedactsTokenOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, getMeResponse)
	}))

	sender, err := newTelegramSender(&http.Client{Timeout: time.Second}, server.URL+"/bot%s/%s", "secret-token", "42")
	require.NoError(t, err)
	server.Close()

	err = sender.Send(context.Background(), Message{})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-token")
	assert.Contains(t, err.Error(), "<redacted>")
}

func TestTelegramSender_CancelledContext(t *testing.T) {
	server := newTelegramServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected after cancellation")
	})

	sender, err := newTelegramSender(&http.Client{Timeout: 5 * time.Second}, server.URL+"/bot%s/%s", "secret-token", "42")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sender.Send(ctx, Message{}), context.Canceled)
}
