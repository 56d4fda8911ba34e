package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Producer publishes JSON payloads to the sync and email queues.
type Producer struct {
	sender        MessageSender
	syncQueueURL  string
	emailQueueURL string
}

func NewProducer(sender MessageSender, syncQueueURL, emailQueueURL string) *Producer {
	return &Producer{
		sender:        sender,
		syncQueueURL:  syncQueueURL,
		emailQueueURL: emailQueueURL,
	}
}

func NewSQSProducer(client SQSClient, syncQueueURL, emailQueueURL string) *Producer {
	return NewProducer(NewSQSSender(client), syncQueueURL, emailQueueURL)
}

func (p *Producer) PublishSync(ctx context.Context, body any) error {
	return p.publish(ctx, p.syncQueueURL, body)
}

func (p *Producer) PublishEmail(ctx context.Context, body any) error {
	return p.publish(ctx, p.emailQueueURL, body)
}

func (p *Producer) publish(ctx context.Context, destination string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	// Enrich the current span with the worker name if available
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		var payload struct {
			Worker string `json:"worker"`
		}
		if err := json.Unmarshal(b, &payload); err == nil && payload.Worker != "" {
			span.SetAttributes(attribute.String("app.worker", payload.Worker))
		}
	}

	if err := p.sender.SendMessage(ctx, destination, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
