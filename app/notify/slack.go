package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

var _ Sender = (*SlackSender)(nil)

// SlackSender posts matches to an incoming webhook.
type SlackSender struct {
	httpClient *http.Client
	webhookURL string
}

func NewSlackSender(httpClient *http.Client, webhookURL string) *SlackSender {
	return &SlackSender{
		httpClient: httpClient,
		webhookURL: webhookURL,
	}
}

func (s *SlackSender) Send(ctx context.Context, msg Message) error {
	err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.httpClient, buildWebhookMessage(msg))
	if err != nil {
		return fmt.Errorf("failed to post slack webhook: %w", err)
	}
	return nil
}

func buildWebhookMessage(msg Message) *slack.WebhookMessage {
	headline := fmt.Sprintf("Filter match in %s: %s", msg.SourceID, msg.Keyword)

	text := fmt.Sprintf("*%s*\n<%s|Deal here>", headline, msg.URL)
	if msg.Title != "" {
		text = fmt.Sprintf("*%s*\n%s\n<%s|Deal here>", headline, msg.Title, msg.URL)
	}

	return &slack.WebhookMessage{
		Text: headline,
		Blocks: &slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
		}},
	}
}
