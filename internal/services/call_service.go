package services

import (
	"context"
	"fmt"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	"github.com/ArowuTest/callops-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure CallServiceImpl implements CallService
var _ CallService = (*CallServiceImpl)(nil)

// CallServiceImpl records dial attempts and drives the call-side lifecycle
// transitions on the numbers they touch
type CallServiceImpl struct {
	callRepo  repositories.CallRepository
	lifecycle LifecycleService
}

// NewCallService creates a new CallServiceImpl
func NewCallService(callRepo repositories.CallRepository, lifecycle LifecycleService) *CallServiceImpl {
	return &CallServiceImpl{
		callRepo:  callRepo,
		lifecycle: lifecycle,
	}
}

// StartCall opens a call against an assigned number and moves it to in_use.
// A number not currently assigned to anyone rejects the start.
func (s *CallServiceImpl) StartCall(ctx context.Context, number, userID string) (*models.Call, error) {
	canonical, reason := utils.NormalizeMSISDN(number)
	if reason != "" {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, reason)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", models.ErrValidation)
	}

	applied, err := s.lifecycle.Transition(ctx, canonical, CallStartedEvent())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: number %s is not assigned", models.ErrStateConflict, utils.MaskNumber(canonical))
	}

	call := &models.Call{
		PhoneNumber: canonical,
		UserID:      userID,
		Status:      models.CallStatusPending,
	}
	if err := s.callRepo.Create(ctx, call); err != nil {
		// No rollback of the status write; the call-deleted path or an
		// explicit reset reconciles the number later.
		slog.Error("Failed to persist call record", "error", err, "number", utils.MaskNumber(canonical))
		return nil, fmt.Errorf("failed to create call record: %w", err)
	}

	slog.Info("Call started", "number", utils.MaskNumber(canonical), "userId", userID, "callId", call.ID.Hex())
	return call, nil
}

// CompleteCall closes a pending call with an outcome. A follow-up outcome
// (callback, interested) returns the number to assigned so the caller keeps
// it; anything else retires it to completed.
func (s *CallServiceImpl) CompleteCall(ctx context.Context, id string, outcome models.CallOutcome, notes string) (*models.Call, error) {
	callID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid call id", models.ErrValidation)
	}
	if outcome == "" {
		return nil, fmt.Errorf("%w: outcome is required", models.ErrValidation)
	}

	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if call.Status != models.CallStatusPending {
		return nil, fmt.Errorf("%w: call %s is already completed", models.ErrStateConflict, id)
	}

	call.Status = models.CallStatusCompleted
	call.Outcome = outcome
	call.Notes = notes
	if err := s.callRepo.Update(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to update call record: %w", err)
	}

	applied, err := s.lifecycle.Transition(ctx, call.PhoneNumber, CallCompletedEvent(outcome))
	if err != nil {
		return nil, err
	}
	if !applied {
		// Stale bookkeeping; the call record is the source of truth here.
		slog.Warn("Completion transition rejected",
			"number", utils.MaskNumber(call.PhoneNumber), "callId", id, "outcome", outcome)
	}

	slog.Info("Call completed", "callId", id, "outcome", outcome, "number", utils.MaskNumber(call.PhoneNumber))
	return call, nil
}

// DeleteCall removes a call record. Removing a pending call reverts the
// number's allocation so it stays usable.
func (s *CallServiceImpl) DeleteCall(ctx context.Context, id string) error {
	callID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid call id", models.ErrValidation)
	}

	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return err
	}
	if err := s.callRepo.Delete(ctx, callID); err != nil {
		return err
	}

	if call.Status == models.CallStatusPending {
		if _, terr := s.lifecycle.Transition(ctx, call.PhoneNumber, CallDeletedEvent()); terr != nil {
			slog.Error("Failed to revert number after call deletion",
				"error", terr, "number", utils.MaskNumber(call.PhoneNumber), "callId", id)
		}
	}

	slog.Info("Call deleted", "callId", id, "number", utils.MaskNumber(call.PhoneNumber))
	return nil
}

// GetCallsForNumber returns the call history for a number
func (s *CallServiceImpl) GetCallsForNumber(ctx context.Context, number string) ([]*models.Call, error) {
	canonical, reason := utils.NormalizeMSISDN(number)
	if reason != "" {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, reason)
	}
	return s.callRepo.FindByPhoneNumber(ctx, canonical)
}

// GetCallsForUser returns the call history of a caller
func (s *CallServiceImpl) GetCallsForUser(ctx context.Context, userID string) ([]*models.Call, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", models.ErrValidation)
	}
	return s.callRepo.FindByUserID(ctx, userID)
}
