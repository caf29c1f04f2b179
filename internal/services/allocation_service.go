package services

import (
	"context"
	"fmt"

	"github.com/ArowuTest/callops-backend/internal/config"
	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	"github.com/ArowuTest/callops-backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AllocationServiceImpl implements AllocationService
var _ AllocationService = (*AllocationServiceImpl)(nil)

// AllocationServiceImpl selects available numbers and marks them assigned to
// a caller as one cohort. There is no lock anywhere in this path: each
// assignment is an independent conditional write, and a candidate lost to a
// concurrent allocator is dropped, not retried.
type AllocationServiceImpl struct {
	numberRepo repositories.PhoneNumberRepository
	lifecycle  LifecycleService
	scanCap    int64
}

// NewAllocationService creates a new AllocationServiceImpl
func NewAllocationService(numberRepo repositories.PhoneNumberRepository, lifecycle LifecycleService, cfg *config.Config) *AllocationServiceImpl {
	scanCap := int64(cfg.Pool.AllocationScanCap)
	if scanCap <= 0 {
		scanCap = 1000
	}
	return &AllocationServiceImpl{
		numberRepo: numberRepo,
		lifecycle:  lifecycle,
		scanCap:    scanCap,
	}
}

// AssignNumbers assigns up to count available numbers to a caller under one
// fresh batch id. Under-fulfilment is reported as success with a note;
// an empty candidate set is models.ErrNoAvailableNumbers.
func (s *AllocationServiceImpl) AssignNumbers(ctx context.Context, userID string, count int, areaCode string) (*models.AssignResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", models.ErrValidation)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", models.ErrValidation)
	}

	// Bounded candidate scan; ordering among candidates is store order.
	candidates, err := s.numberRepo.FindAvailable(ctx, areaCode, s.scanCap)
	if err != nil {
		slog.Error("Failed to fetch allocation candidates", "error", err, "areaCode", areaCode)
		return nil, fmt.Errorf("failed to fetch available numbers: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: area code %q", models.ErrNoAvailableNumbers, areaCode)
	}

	wanted := count
	if wanted > len(candidates) {
		wanted = len(candidates)
	}

	batchID := uuid.NewString()
	assigned := make([]string, 0, wanted)
	for _, candidate := range candidates[:wanted] {
		applied, terr := s.lifecycle.Transition(ctx, candidate.Number, AssignEvent(userID, batchID))
		if terr != nil {
			slog.Error("Assignment write failed", "error", terr, "number", utils.MaskNumber(candidate.Number), "batchId", batchID)
			continue
		}
		if !applied {
			// Raced by a concurrent allocation; skip and move on.
			slog.Warn("Candidate taken by concurrent request", "number", utils.MaskNumber(candidate.Number), "batchId", batchID)
			continue
		}
		assigned = append(assigned, candidate.Number)
	}

	result := &models.AssignResult{
		AssignedNumbers: assigned,
		BatchID:         batchID,
		RequestedCount:  count,
		ActualCount:     len(assigned),
	}
	if result.ActualCount < count {
		result.Note = fmt.Sprintf("only %d of %d requested numbers could be assigned", result.ActualCount, count)
	}

	slog.Info("Allocation completed",
		"userId", userID, "batchId", batchID,
		"requested", count, "actual", result.ActualCount, "areaCode", areaCode)
	return result, nil
}

// QuickAssign returns one number the caller can dial right away. A number
// already assigned to the caller from an earlier partial allocation is
// preferred over consuming fresh inventory.
func (s *AllocationServiceImpl) QuickAssign(ctx context.Context, userID, areaCode string) (*models.PhoneNumber, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", models.ErrValidation)
	}

	held, err := s.numberRepo.FindAssignedTo(ctx, userID, areaCode, []models.NumberStatus{models.StatusAssigned}, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to check held numbers: %w", err)
	}
	if len(held) > 0 {
		return held[0], nil
	}

	result, err := s.AssignNumbers(ctx, userID, 1, areaCode)
	if err != nil {
		return nil, err
	}
	if result.ActualCount == 0 {
		// Every candidate was raced away between scan and write.
		return nil, fmt.Errorf("%w: area code %q", models.ErrNoAvailableNumbers, areaCode)
	}
	return s.numberRepo.FindByNumber(ctx, result.AssignedNumbers[0])
}
