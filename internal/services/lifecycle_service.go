package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	"github.com/ArowuTest/callops-backend/internal/utils"
	"golang.org/x/exp/slog"
)

// EventKind identifies a lifecycle transition trigger
type EventKind string

const (
	EventAssign        EventKind = "assign"
	EventCallStarted   EventKind = "call_started"
	EventCallCompleted EventKind = "call_completed"
	EventCallDeleted   EventKind = "call_deleted"
	EventReset         EventKind = "reset"
)

// TransitionEvent carries a lifecycle trigger and its payload
type TransitionEvent struct {
	Kind     EventKind
	CallerID string
	BatchID  string
	Outcome  models.CallOutcome
}

// AssignEvent builds the assignment trigger for one cohort member
func AssignEvent(callerID, batchID string) TransitionEvent {
	return TransitionEvent{Kind: EventAssign, CallerID: callerID, BatchID: batchID}
}

// CallStartedEvent marks a number as being dialled
func CallStartedEvent() TransitionEvent {
	return TransitionEvent{Kind: EventCallStarted}
}

// CallCompletedEvent routes a number by its call outcome
func CallCompletedEvent(outcome models.CallOutcome) TransitionEvent {
	return TransitionEvent{Kind: EventCallCompleted, Outcome: outcome}
}

// CallDeletedEvent reverts a number whose in-flight call record was removed
func CallDeletedEvent() TransitionEvent {
	return TransitionEvent{Kind: EventCallDeleted}
}

// ResetEvent returns a number to the available pool
func ResetEvent() TransitionEvent {
	return TransitionEvent{Kind: EventReset}
}

// transitionRule maps an event to the prior states it is legal from and the
// change it applies. This table is the whole state machine:
//
//	available -> assigned -> in_use -> completed
//
// with in_use/completed falling back to assigned when the outcome still needs
// follow-up, and assigned -> available only via explicit reset.
func transitionRule(event TransitionEvent) ([]models.NumberStatus, models.StatusChange, error) {
	switch event.Kind {
	case EventAssign:
		now := time.Now()
		return []models.NumberStatus{models.StatusAvailable},
			models.StatusChange{
				To:         models.StatusAssigned,
				AssignedTo: event.CallerID,
				BatchID:    event.BatchID,
				AssignedAt: &now,
			}, nil
	case EventCallStarted:
		return []models.NumberStatus{models.StatusAssigned},
			models.StatusChange{To: models.StatusInUse}, nil
	case EventCallCompleted:
		if event.Outcome.NeedsFollowUp() {
			// The caller still has re-engagement work on this number, so it
			// stays usable instead of being retired.
			return []models.NumberStatus{models.StatusInUse, models.StatusCompleted},
				models.StatusChange{To: models.StatusAssigned}, nil
		}
		return []models.NumberStatus{models.StatusInUse},
			models.StatusChange{To: models.StatusCompleted}, nil
	case EventCallDeleted:
		return []models.NumberStatus{models.StatusInUse},
			models.StatusChange{To: models.StatusAssigned}, nil
	case EventReset:
		return []models.NumberStatus{models.StatusAssigned, models.StatusCompleted},
			models.StatusChange{To: models.StatusAvailable, AssignedTo: models.Unassigned}, nil
	default:
		return nil, models.StatusChange{}, fmt.Errorf("unknown transition event %q", event.Kind)
	}
}

// Compile-time check to ensure LifecycleServiceImpl implements LifecycleService
var _ LifecycleService = (*LifecycleServiceImpl)(nil)

// LifecycleServiceImpl applies lifecycle transitions through conditional
// store writes. No other component writes status.
type LifecycleServiceImpl struct {
	numberRepo repositories.PhoneNumberRepository
}

// NewLifecycleService creates a new LifecycleServiceImpl
func NewLifecycleService(numberRepo repositories.PhoneNumberRepository) *LifecycleServiceImpl {
	return &LifecycleServiceImpl{numberRepo: numberRepo}
}

// Transition applies one event to one number. The expected prior state rides
// in the update filter, so a raced or illegal transition matches nothing and
// comes back as (false, nil): a rejected no-op the caller can treat as an
// idempotent failure. Errors are reserved for a missing number or a store
// failure.
func (s *LifecycleServiceImpl) Transition(ctx context.Context, number string, event TransitionEvent) (bool, error) {
	from, change, err := transitionRule(event)
	if err != nil {
		return false, err
	}

	applied, err := s.numberRepo.UpdateStatusIf(ctx, number, from, change)
	if err != nil {
		return false, fmt.Errorf("%w: apply transition %s: %v", models.ErrProcessing, event.Kind, err)
	}
	if !applied {
		if _, findErr := s.numberRepo.FindByNumber(ctx, number); findErr != nil {
			if errors.Is(findErr, models.ErrNotFound) {
				return false, findErr
			}
			return false, fmt.Errorf("failed to check number after rejected transition: %w", findErr)
		}
		slog.Warn("Transition rejected",
			"number", utils.MaskNumber(number), "event", event.Kind, "wanted", from)
		return false, nil
	}

	slog.Info("Transition applied",
		"number", utils.MaskNumber(number), "event", event.Kind, "to", change.To)
	return true, nil
}
