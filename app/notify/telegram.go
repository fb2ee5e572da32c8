package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var _ Sender = (*TelegramSender)(nil)

type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	token  string
	chatID string
}

// NewTelegramSender checks the token with getMe before returning.
func NewTelegramSender(httpClient *http.Client, token, chatID string) (*TelegramSender, error) {
	return newTelegramSender(httpClient, tgbotapi.APIEndpoint, token, chatID)
}

func newTelegramSender(httpClient *http.Client, apiEndpoint, token, chatID string) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", redactToken(err, token))
	}

	return &TelegramSender{
		bot:    bot,
		token:  token,
		chatID: chatID,
	}, nil
}

func (s *TelegramSender) Send(ctx context.Context, msg Message) error {
	// The bot client takes no context; only a cancelled tick is honoured.
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.bot.Send(s.newMessage(FormatMarkdownV2(msg))); err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			return fmt.Errorf("telegram error %d: %w", apiErr.Code, err)
		}
		return fmt.Errorf("failed to send telegram message: %w", redactToken(err, s.token))
	}

	return nil
}

// newMessage addresses numeric chat ids directly and anything else, such as
// "@channel", by username.
func (s *TelegramSender) newMessage(text string) tgbotapi.MessageConfig {
	var config tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(s.chatID, 10, 64); err == nil {
		config = tgbotapi.NewMessage(id, text)
	} else {
		config = tgbotapi.NewMessageToChannel(s.chatID, text)
	}
	config.ParseMode = tgbotapi.ModeMarkdownV2
	return config
}

// FormatMarkdownV2 renders msg as an underlined headline naming the source and
// keyword, followed by a link to the post.
func FormatMarkdownV2(msg Message) string {
	return fmt.Sprintf("__Filter Match in %s: %s__\n[Deal here](%s)",
		escapeMarkdownV2(msg.SourceID),
		escapeMarkdownV2(msg.Keyword),
		escapeMarkdownV2URL(msg.URL))
}

// EscapeText leaves backslashes alone, which MarkdownV2 also reserves.
func escapeMarkdownV2(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, strings.ReplaceAll(s, `\`, `\\`))
}

// Inside (...) of an inline link only ')' and '\' are special.
var markdownV2URLEscaper = strings.NewReplacer(`\`, `\\`, ")", `\)`)

func escapeMarkdownV2URL(s string) string {
	return markdownV2URLEscaper.Replace(s)
}

func redactToken(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
