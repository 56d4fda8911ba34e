package clocksync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewclock.service/internal/core/model"
	"crewclock.service/internal/ports/messaging"
	"crewclock.service/internal/ports/repository/memory"
)

type fakePayroll struct {
	mu       sync.Mutex
	err      error
	recorded []string
}

func (f *fakePayroll) RecordClockEntry(_ context.Context, e model.ClockEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, e.ID)
	return nil
}

type fakeProducer struct {
	emails []messaging.ShiftSummaryEvent
}

func (f *fakeProducer) PublishSync(context.Context, any) error { return nil }

func (f *fakeProducer) PublishEmail(_ context.Context, body any) error {
	f.emails = append(f.emails, body.(messaging.ShiftSummaryEvent))
	return nil
}

var nine = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func message(t *testing.T, e model.ClockEvent) types.Message {
	t.Helper()
	b, err := json.Marshal(messaging.NewClockEntryEvent(e))
	require.NoError(t, err)
	return types.Message{Body: aws.String(string(b))}
}

func seed(t *testing.T, store *memory.Store, entries ...model.ClockEvent) {
	t.Helper()
	for i := range entries {
		_, err := store.CreateClockEntry(context.Background(), &entries[i])
		require.NoError(t, err)
	}
}

func TestProcess_SyncsEntry(t *testing.T) {
	store := memory.NewStore()
	in := model.ClockEvent{ID: "e1", Worker: "Alice", Project: "P1", Type: model.ClockIn, Time: nine}
	seed(t, store, in)
	client := &fakePayroll{}
	producer := &fakeProducer{}

	retry, _, err := NewProcessor(store, client, producer).Process(context.Background(), message(t, in))
	require.NoError(t, err)
	assert.False(t, retry)

	got, _ := store.GetClockEntry(context.Background(), "e1")
	assert.True(t, got.Synced)
	assert.Equal(t, []string{"e1"}, client.recorded)
	assert.Empty(t, producer.emails, "clock-ins do not produce a summary")
}

func TestProcess_ClockOutQueuesShiftSummary(t *testing.T) {
	store := memory.NewStore()
	in := model.ClockEvent{ID: "e1", Worker: "Alice", Project: "P1", Type: model.ClockIn, Time: nine, Synced: true}
	out := model.ClockEvent{ID: "e2", Worker: "Alice", Project: "P1", Type: model.ClockOut, Time: nine.Add(7*time.Hour + 30*time.Minute)}
	seed(t, store, in, out)
	producer := &fakeProducer{}

	_, _, err := NewProcessor(store, &fakePayroll{}, producer).Process(context.Background(), message(t, out))
	require.NoError(t, err)

	require.Len(t, producer.emails, 1)
	summary := producer.emails[0]
	assert.Equal(t, "e2", summary.EntryID)
	assert.Equal(t, 7.5, summary.HoursWorked)
	assert.True(t, summary.ClockIn.Equal(nine))
}

func TestProcess_AlreadySyncedIsSkipped(t *testing.T) {
	store := memory.NewStore()
	e := model.ClockEvent{ID: "e1", Worker: "Alice", Project: "P1", Type: model.ClockIn, Time: nine, Synced: true}
	seed(t, store, e)
	client := &fakePayroll{}

	retry, _, err := NewProcessor(store, client, &fakeProducer{}).Process(context.Background(), message(t, e))
	require.NoError(t, err)
	assert.False(t, retry)
	assert.Empty(t, client.recorded)
}

func TestProcess_PayrollFailureRetriesWithBackoff(t *testing.T) {
	store := memory.NewStore()
	e := model.ClockEvent{ID: "e1", Worker: "Alice", Project: "P1", Type: model.ClockIn, Time: nine}
	seed(t, store, e)
	p := NewProcessor(store, &fakePayroll{err: errors.New("payroll down")}, &fakeProducer{})

	retry, delay, err := p.Process(context.Background(), message(t, e))
	assert.Error(t, err)
	assert.True(t, retry)
	assert.Equal(t, int32(20), delay)

	_, delay, _ = p.Process(context.Background(), message(t, e))
	assert.Equal(t, int32(40), delay)

	got, _ := store.GetClockEntry(context.Background(), "e1")
	assert.False(t, got.Synced)
	assert.Equal(t, 2, got.SyncAttempts)
}

func TestProcess_MalformedAndMissing(t *testing.T) {
	p := NewProcessor(memory.NewStore(), &fakePayroll{}, &fakeProducer{})

	retry, _, err := p.Process(context.Background(), types.Message{Body: aws.String("{")})
	assert.Error(t, err)
	assert.False(t, retry)

	retry, _, err = p.Process(context.Background(), message(t, model.ClockEvent{ID: "gone"}))
	assert.Error(t, err)
	assert.False(t, retry)
}
