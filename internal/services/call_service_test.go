package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCallFixture(numberRepo *fakeNumberRepo, callRepo *fakeCallRepo) *CallServiceImpl {
	return NewCallService(callRepo, NewLifecycleService(numberRepo))
}

func TestStartCall(t *testing.T) {
	numberRepo := newFakeNumberRepo()
	numberRepo.seed(&models.PhoneNumber{Number: "9876543210", Status: models.StatusAssigned, AssignedTo: "agent-1", AreaCode: "001"})
	callRepo := newFakeCallRepo()
	svc := newCallFixture(numberRepo, callRepo)

	call, err := svc.StartCall(context.Background(), "+91 98765 43210", "agent-1")
	require.NoError(t, err)

	assert.Equal(t, "9876543210", call.PhoneNumber)
	assert.Equal(t, models.CallStatusPending, call.Status)
	assert.False(t, call.ID.IsZero())
	assert.Equal(t, models.StatusInUse, numberRepo.get("9876543210").Status)
}

func TestStartCallRejectsUnassignedNumber(t *testing.T) {
	numberRepo := newFakeNumberRepo()
	numberRepo.seed(&models.PhoneNumber{Number: "9876543210", Status: models.StatusAvailable, AssignedTo: models.Unassigned, AreaCode: "001"})
	svc := newCallFixture(numberRepo, newFakeCallRepo())

	_, err := svc.StartCall(context.Background(), "9876543210", "agent-1")
	assert.ErrorIs(t, err, models.ErrStateConflict)
	assert.Equal(t, models.StatusAvailable, numberRepo.get("9876543210").Status)
}

func TestStartCallValidation(t *testing.T) {
	svc := newCallFixture(newFakeNumberRepo(), newFakeCallRepo())

	_, err := svc.StartCall(context.Background(), "123", "agent-1")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.StartCall(context.Background(), "9876543210", "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCompleteCallFollowUpOutcome(t *testing.T) {
	numberRepo := newFakeNumberRepo()
	numberRepo.seed(&models.PhoneNumber{Number: "9876543210", Status: models.StatusAssigned, AssignedTo: "agent-1", AreaCode: "001"})
	callRepo := newFakeCallRepo()
	svc := newCallFixture(numberRepo, callRepo)

	call, err := svc.StartCall(context.Background(), "9876543210", "agent-1")
	require.NoError(t, err)

	completed, err := svc.CompleteCall(context.Background(), call.ID.Hex(), models.OutcomeCallback, "wants a demo")
	require.NoError(t, err)

	assert.Equal(t, models.CallStatusCompleted, completed.Status)
	assert.Equal(t, models.OutcomeCallback, completed.Outcome)
	assert.Equal(t, "wants a demo", completed.Notes)
	// Callback keeps the number with the caller.
	assert.Equal(t, models.StatusAssigned, numberRepo.get("9876543210").Status)
	assert.Equal(t, "agent-1", numberRepo.get("9876543210").AssignedTo)
}

func TestCompleteCallTerminalOutcome(t *testing.T) {
	numberRepo := newFakeNumberRepo()
	numberRepo.seed(&models.PhoneNumber{Number: "9876543210", Status: models.StatusAssigned, AssignedTo: "agent-1", AreaCode: "001"})
	callRepo := newFakeCallRepo()
	svc := newCallFixture(numberRepo, callRepo)

	call, err := svc.StartCall(context.Background(), "9876543210", "agent-1")
	require.NoError(t, err)

	_, err = svc.CompleteCall(context.Background(), call.ID.Hex(), models.OutcomeNotInterested, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, numberRepo.get("9876543210").Status)
}

func TestCompleteCallTwice(t *testing.T) {
	numberRepo := newFakeNumberRepo()
	numberRepo.seed(&models.PhoneNumber{Number: "9876543210", Status: models.StatusAssigned, AssignedTo: "agent-1", AreaCode: "001"})
	callRepo := newFakeCallRepo()
	svc := newCallFixture(numberRepo, callRepo)

	call, err := svc.StartCall(context.Background(), "9876543210", "agent-1")
	require.NoError(t, err)
	_, err = svc.CompleteCall(context.Background(), call.ID.Hex(), models.OutcomeNoAnswer, "")
	require.NoError(t, err)

	_, err = svc.CompleteCall(context.Background(), call.ID.Hex(), models.OutcomeNoAnswer, "")
	assert.ErrorIs(t, err, models.ErrStateConflict)
}

func TestCompleteCallValidation(t *testing.T) {
	svc := newCallFixture(newFakeNumberRepo(), newFakeCallRepo())

	_, err := svc.CompleteCall(context.Background(), "not-an-id", models.OutcomeNoAnswer, "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestDeleteCallRevertsPendingCall(t *testing.T) {
	numberRepo := newFakeNumberRepo()
	numberRepo.seed(&models.PhoneNumber{Number: "9876543210", Status: models.StatusAssigned, AssignedTo: "agent-1", AreaCode: "001"})
	callRepo := newFakeCallRepo()
	svc := newCallFixture(numberRepo, callRepo)

	call, err := svc.StartCall(context.Background(), "9876543210", "agent-1")
	require.NoError(t, err)
	require.Equal(t, models.StatusInUse, numberRepo.get("9876543210").Status)

	err = svc.DeleteCall(context.Background(), call.ID.Hex())
	require.NoError(t, err)

	// The aborted dial returns the number to the caller.
	assert.Equal(t, models.StatusAssigned, numberRepo.get("9876543210").Status)
	_, err = callRepo.FindByID(context.Background(), call.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteCompletedCallLeavesNumberAlone(t *testing.T) {
	numberRepo := newFakeNumberRepo()
	numberRepo.seed(&models.PhoneNumber{Number: "9876543210", Status: models.StatusAssigned, AssignedTo: "agent-1", AreaCode: "001"})
	callRepo := newFakeCallRepo()
	svc := newCallFixture(numberRepo, callRepo)

	call, err := svc.StartCall(context.Background(), "9876543210", "agent-1")
	require.NoError(t, err)
	_, err = svc.CompleteCall(context.Background(), call.ID.Hex(), models.OutcomeNotInterested, "")
	require.NoError(t, err)

	err = svc.DeleteCall(context.Background(), call.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, numberRepo.get("9876543210").Status)
}

func TestGetCalls(t *testing.T) {
	numberRepo := newFakeNumberRepo()
	numberRepo.seed(&models.PhoneNumber{Number: "9876543210", Status: models.StatusAssigned, AssignedTo: "agent-1", AreaCode: "001"})
	callRepo := newFakeCallRepo()
	svc := newCallFixture(numberRepo, callRepo)

	_, err := svc.StartCall(context.Background(), "9876543210", "agent-1")
	require.NoError(t, err)

	byNumber, err := svc.GetCallsForNumber(context.Background(), "+919876543210")
	require.NoError(t, err)
	assert.Len(t, byNumber, 1)

	byUser, err := svc.GetCallsForUser(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	_, err = svc.GetCallsForUser(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrValidation)
}
