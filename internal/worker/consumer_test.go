package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
)

type fakeSQS struct {
	mu         sync.Mutex
	batches    [][]types.Message
	deleted    []string
	visibility map[string]int32
	ackErrs    []error
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ackErrs = append(f.ackErrs, ctx.Err())
	f.deleted = append(f.deleted, *in.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) ChangeMessageVisibility(ctx context.Context, in *sqs.ChangeMessageVisibilityInput, _ ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ackErrs = append(f.ackErrs, ctx.Err())
	f.visibility[*in.ReceiptHandle] = in.VisibilityTimeout
	return &sqs.ChangeMessageVisibilityOutput{}, nil
}

func (f *fakeSQS) handled() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted) + len(f.visibility)
}

type scriptedProcessor map[string]struct {
	retry bool
	delay int32
	err   error
}

func (p scriptedProcessor) Process(_ context.Context, msg types.Message) (bool, int32, error) {
	r := p[*msg.Body]
	return r.retry, r.delay, r.err
}

func msg(body string) types.Message {
	return types.Message{Body: aws.String(body), ReceiptHandle: aws.String(body)}
}

func TestWorker_DeletesOrRetries(t *testing.T) {
	client := &fakeSQS{
		batches:    [][]types.Message{{msg("ok"), msg("flaky")}, {msg("broken")}},
		visibility: map[string]int32{},
	}
	proc := scriptedProcessor{
		"flaky":  {retry: true, delay: 40, err: errors.New("payroll down")},
		"broken": {err: errors.New("malformed")},
	}

	w := NewWorker(client, "queue", proc)
	w.Concurrency = 2

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return client.handled() == 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	assert.ElementsMatch(t, []string{"ok", "broken"}, client.deleted)
	assert.Equal(t, map[string]int32{"flaky": 40}, client.visibility)
}

type ctxRecorder struct {
	err error
}

func (p *ctxRecorder) Process(ctx context.Context, _ types.Message) (bool, int32, error) {
	p.err = ctx.Err()
	return false, 0, nil
}

func TestWorker_FinishesInFlightMessageAfterShutdown(t *testing.T) {
	client := &fakeSQS{visibility: map[string]int32{}}
	proc := &ctxRecorder{}
	w := NewWorker(client, "queue", proc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.handleSingleMessage(ctx, msg("in-flight"))

	assert.NoError(t, proc.err, "processing is not cut short by shutdown")
	assert.Equal(t, []string{"in-flight"}, client.deleted)
	assert.Equal(t, []error{nil}, client.ackErrs, "delete runs on a live context")
}

func TestWorker_RetryAfterShutdownUsesLiveContext(t *testing.T) {
	client := &fakeSQS{visibility: map[string]int32{}}
	w := NewWorker(client, "queue", scriptedProcessor{
		"flaky": {retry: true, delay: 20, err: errors.New("payroll down")},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.handleSingleMessage(ctx, msg("flaky"))

	assert.Equal(t, map[string]int32{"flaky": 20}, client.visibility)
	assert.Equal(t, []error{nil}, client.ackErrs)
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, int32(10), CalculateBackoff(0))
	assert.Equal(t, int32(20), CalculateBackoff(1))
	assert.Equal(t, int32(80), CalculateBackoff(3))
	assert.Equal(t, int32(3600), CalculateBackoff(12))
}
