package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"crewclock.service/internal/core"
	"crewclock.service/internal/ports/messaging"
	"crewclock.service/internal/ports/repository"
	"crewclock.service/internal/worker"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
)

type EmailProcessor struct {
	emailService core.EmailService
	repo         repository.ClockEntryRepository
	domain       string
}

// NewProcessor sets up a new processor for shift summary emails.
// Recipients are addressed as <worker>@domain.
func NewProcessor(emailService core.EmailService, repo repository.ClockEntryRepository, domain string) *EmailProcessor {
	return &EmailProcessor{
		emailService: emailService,
		repo:         repo,
		domain:       domain,
	}
}

// Process is the main entry point for handling a message from the email queue.
func (p *EmailProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty email message")
	}
	var event messaging.ShiftSummaryEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal shift summary event")
		return false, 0, err // Do not retry on malformed message
	}

	entry, err := p.repo.GetClockEntry(ctx, event.EntryID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, 0, fmt.Errorf("clock entry %s no longer exists: %w", event.EntryID, err)
	}
	if err != nil {
		return true, 10, fmt.Errorf("failed to get clock entry for email processing: %w", err)
	}

	if entry.SummarySent {
		log.Ctx(ctx).Info().Str("entry_id", event.EntryID).Msg("Shift summary already sent. Skipping.")
		return false, 0, nil
	}

	if err := p.emailService.SendShiftSummary(ctx, p.recipient(event.Worker), event); err != nil {
		return true, worker.CalculateBackoff(receiveCount(msg)), err
	}

	if err := p.repo.MarkSummarySent(ctx, event.EntryID); err != nil {
		return true, 10, fmt.Errorf("failed to mark summary sent: %w", err)
	}
	return false, 0, nil
}

func (p *EmailProcessor) recipient(name string) string {
	local := strings.Join(strings.Fields(strings.ToLower(name)), ".")
	return local + "@" + p.domain
}

// receiveCount reads how often SQS has delivered the message already.
func receiveCount(msg types.Message) int {
	n, err := strconv.Atoi(msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)])
	if err != nil {
		return 1
	}
	return n
}
