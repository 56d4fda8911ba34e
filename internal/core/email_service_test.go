package core

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"crewclock.service/internal/ports/messaging"
)

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	return &ses.SendEmailOutput{}, nil
}

func TestSESEmailService_SendShiftSummary(t *testing.T) {
	client := &fakeSES{}
	svc := NewSESEmailService(client, "clock@site.io")
	in := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	err := svc.SendShiftSummary(context.Background(), "alice@site.io", messaging.ShiftSummaryEvent{
		Worker:      "Alice",
		Project:     "Bridge",
		ClockIn:     in,
		ClockOut:    in.Add(7*time.Hour + 30*time.Minute),
		HoursWorked: 7.5,
	})
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "clock@site.io", *client.input.Source)
	assert.Equal(t, []string{"alice@site.io"}, client.input.Destination.ToAddresses)
	body := *client.input.Message.Body.Text.Data
	assert.Contains(t, body, "Bridge")
	assert.Contains(t, body, "16:30")
	assert.Contains(t, body, "7.50 hours")
}

func TestSESEmailService_RecordsClientSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	svc := NewSESEmailService(&fakeSES{}, "clock@site.io")
	require.NoError(t, svc.SendShiftSummary(context.Background(), "alice@site.io", messaging.ShiftSummaryEvent{Worker: "Alice"}))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "send_email", spans[0].Name())
}
