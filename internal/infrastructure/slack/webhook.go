// Package slack posts run summaries to an incoming webhook.
package slack

import (
	"context"
	"net/url"

	"github.com/turtacn/lawsuit-monitor/internal/config"
	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/lawsuit-monitor/pkg/client"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// Attachment colours.
const (
	ColorGood    = "good"
	ColorWarning = "warning"
	ColorDanger  = "danger"
)

type message struct {
	Text        string       `json:"text,omitempty"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type attachment struct {
	Color string `json:"color"`
	Text  string `json:"text"`
}

// Webhook is one Slack incoming-webhook URL.
type Webhook struct {
	http *client.Client
	path string
	log  logging.Logger
}

// NewWebhook validates cfg.WebhookURL and returns a Webhook for it.
func NewWebhook(cfg config.SlackConfig, logger logging.Logger, opts ...client.Option) (*Webhook, error) {
	if cfg.WebhookURL == "" {
		return nil, errors.New(errors.ErrCodeMissingConfig, "slack: webhook url is required")
	}
	u, err := url.Parse(cfg.WebhookURL)
	if err != nil || u.Host == "" {
		return nil, errors.InvalidConfig("slack: invalid webhook url")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	root := u.Scheme + "://" + u.Host
	hc, err := client.New(root, append([]client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger),
	}, opts...)...)
	if err != nil {
		return nil, err
	}
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return &Webhook{http: hc, path: path, log: logger.Named("slack")}, nil
}

// Post sends a plain text message.
func (w *Webhook) Post(ctx context.Context, text string) error {
	return w.send(ctx, message{Text: text})
}

// PostWithColor sends text as a single coloured attachment.
func (w *Webhook) PostWithColor(ctx context.Context, text, color string) error {
	return w.send(ctx, message{Attachments: []attachment{{Color: color, Text: text}}})
}

func (w *Webhook) send(ctx context.Context, m message) error {
	// Slack answers "ok" as text/plain, so the body is not decoded.
	if err := w.http.Post(ctx, w.path, m, nil); err != nil {
		return errors.Wrap(err, errors.ErrCodeWebhookFailed, "slack webhook post failed")
	}
	w.log.Debug("slack message sent")
	return nil
}

//Personal.AI order the ending
