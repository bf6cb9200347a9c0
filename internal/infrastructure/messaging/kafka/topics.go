package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

const (
	EventTypeReportPublished = "report.published"
	SchemaVersion            = "1"
	eventSource              = "lawsuit-monitor"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ReportPublishedPayload describes one published report.
type ReportPublishedPayload struct {
	IssueNumber     int       `json:"issue_number"`
	IssueURL        string    `json:"issue_url"`
	IssueTitle      string    `json:"issue_title"`
	BaseSnapshot    bool      `json:"base_snapshot"`
	NewsLawsuits    int       `json:"news_lawsuits"`
	Dockets         int       `json:"dockets"`
	Documents       int       `json:"documents"`
	HighRiskDockets int       `json:"high_risk_dockets"`
	SkippedLines    int       `json:"skipped_lines"`
	ArchiveKey      string    `json:"archive_key,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
}

// NewEnvelope wraps payload in an envelope with a fresh event id.
func NewEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        eventSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Payload:       raw,
	}, nil
}

// PublishReport sends a report.published event keyed by the issue title, so
// every run of one day lands on the same partition.
func (p *Producer) PublishReport(ctx context.Context, payload ReportPublishedPayload) error {
	env, err := NewEnvelope(EventTypeReportPublished, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal event envelope")
	}
	return p.Publish(ctx, Message{
		Key:   []byte(payload.IssueTitle),
		Value: value,
		Headers: map[string]string{
			"event_type":     env.EventType,
			"schema_version": env.SchemaVersion,
		},
		Timestamp: env.Timestamp,
	})
}

//Personal.AI order the ending
