package core

import (
	"context"
	"fmt"

	"crewclock.service/internal/ports/messaging"
	"crewclock.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type EmailService interface {
	SendShiftSummary(ctx context.Context, to string, summary messaging.ShiftSummaryEvent) error
}

// SESClient is the part of the SES API the email service uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESEmailService struct {
	client SESClient
	sender string
}

func NewSESEmailService(client SESClient, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

func (s *SESEmailService) SendShiftSummary(ctx context.Context, to string, summary messaging.ShiftSummaryEvent) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if worker := telemetry.WorkerFromContext(ctx); worker != "" {
		span.SetAttributes(attribute.String("app.worker", worker))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Work Shift Summary"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(shiftSummaryText(summary)),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}

func shiftSummaryText(s messaging.ShiftSummaryEvent) string {
	return fmt.Sprintf("Hello %s,\n\nYou clocked out of %s at %s after clocking in at %s. Total hours worked: %.2f hours.",
		s.Worker, s.Project, s.ClockOut.Format("15:04"), s.ClockIn.Format("15:04"), s.HoursWorked)
}
