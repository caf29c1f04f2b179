package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleTransitions(t *testing.T) {
	tests := []struct {
		name        string
		startStatus models.NumberStatus
		event       TransitionEvent
		wantApplied bool
		wantStatus  models.NumberStatus
	}{
		{
			name:        "assign from available",
			startStatus: models.StatusAvailable,
			event:       AssignEvent("agent-1", "batch-1"),
			wantApplied: true,
			wantStatus:  models.StatusAssigned,
		},
		{
			name:        "assign rejected when already assigned",
			startStatus: models.StatusAssigned,
			event:       AssignEvent("agent-2", "batch-2"),
			wantApplied: false,
			wantStatus:  models.StatusAssigned,
		},
		{
			name:        "call started from assigned",
			startStatus: models.StatusAssigned,
			event:       CallStartedEvent(),
			wantApplied: true,
			wantStatus:  models.StatusInUse,
		},
		{
			name:        "call started rejected from available",
			startStatus: models.StatusAvailable,
			event:       CallStartedEvent(),
			wantApplied: false,
			wantStatus:  models.StatusAvailable,
		},
		{
			name:        "terminal outcome retires the number",
			startStatus: models.StatusInUse,
			event:       CallCompletedEvent(models.OutcomeNotInterested),
			wantApplied: true,
			wantStatus:  models.StatusCompleted,
		},
		{
			name:        "callback outcome keeps the number assigned",
			startStatus: models.StatusInUse,
			event:       CallCompletedEvent(models.OutcomeCallback),
			wantApplied: true,
			wantStatus:  models.StatusAssigned,
		},
		{
			name:        "interested outcome reopens a completed number",
			startStatus: models.StatusCompleted,
			event:       CallCompletedEvent(models.OutcomeInterested),
			wantApplied: true,
			wantStatus:  models.StatusAssigned,
		},
		{
			name:        "terminal outcome rejected from completed",
			startStatus: models.StatusCompleted,
			event:       CallCompletedEvent(models.OutcomeNoAnswer),
			wantApplied: false,
			wantStatus:  models.StatusCompleted,
		},
		{
			name:        "call deleted reverts in_use",
			startStatus: models.StatusInUse,
			event:       CallDeletedEvent(),
			wantApplied: true,
			wantStatus:  models.StatusAssigned,
		},
		{
			name:        "reset from assigned",
			startStatus: models.StatusAssigned,
			event:       ResetEvent(),
			wantApplied: true,
			wantStatus:  models.StatusAvailable,
		},
		{
			name:        "reset from completed",
			startStatus: models.StatusCompleted,
			event:       ResetEvent(),
			wantApplied: true,
			wantStatus:  models.StatusAvailable,
		},
		{
			name:        "reset rejected from in_use",
			startStatus: models.StatusInUse,
			event:       ResetEvent(),
			wantApplied: false,
			wantStatus:  models.StatusInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeNumberRepo()
			repo.seed(&models.PhoneNumber{
				Number:     "9876543210",
				Status:     tt.startStatus,
				AssignedTo: models.Unassigned,
				AreaCode:   "001",
			})
			svc := NewLifecycleService(repo)

			applied, err := svc.Transition(context.Background(), "9876543210", tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
			assert.Equal(t, tt.wantStatus, repo.get("9876543210").Status)
		})
	}
}

func TestTransitionAssignStampsOwnership(t *testing.T) {
	repo := newFakeNumberRepo()
	repo.seed(&models.PhoneNumber{
		Number:     "9876543210",
		Status:     models.StatusAvailable,
		AssignedTo: models.Unassigned,
		AreaCode:   "001",
	})
	svc := NewLifecycleService(repo)

	applied, err := svc.Transition(context.Background(), "9876543210", AssignEvent("agent-7", "batch-42"))
	require.NoError(t, err)
	require.True(t, applied)

	entity := repo.get("9876543210")
	assert.Equal(t, "agent-7", entity.AssignedTo)
	assert.Equal(t, "batch-42", entity.BatchID)
	assert.False(t, entity.AssignedAt.IsZero())
}

func TestTransitionResetClearsOwnership(t *testing.T) {
	repo := newFakeNumberRepo()
	repo.seed(&models.PhoneNumber{
		Number:     "9876543210",
		Status:     models.StatusAssigned,
		AssignedTo: "agent-7",
		AreaCode:   "001",
	})
	svc := NewLifecycleService(repo)

	applied, err := svc.Transition(context.Background(), "9876543210", ResetEvent())
	require.NoError(t, err)
	require.True(t, applied)
	assert.Equal(t, models.Unassigned, repo.get("9876543210").AssignedTo)
}

func TestTransitionMissingNumber(t *testing.T) {
	repo := newFakeNumberRepo()
	svc := NewLifecycleService(repo)

	applied, err := svc.Transition(context.Background(), "9876543210", CallStartedEvent())
	assert.False(t, applied)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTransitionUnknownEvent(t *testing.T) {
	repo := newFakeNumberRepo()
	svc := NewLifecycleService(repo)

	applied, err := svc.Transition(context.Background(), "9876543210", TransitionEvent{Kind: "bogus"})
	assert.False(t, applied)
	assert.Error(t, err)
}
