package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/callops-backend/internal/config"
	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	"github.com/ArowuTest/callops-backend/internal/utils"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure NumberServiceImpl implements NumberService
var _ NumberService = (*NumberServiceImpl)(nil)

// NumberServiceImpl handles single-number operations, pool reporting and
// guard-checked deletion
type NumberServiceImpl struct {
	numberRepo  repositories.PhoneNumberRepository
	callRepo    repositories.CallRepository
	lifecycle   LifecycleService
	guardWindow time.Duration
}

// NewNumberService creates a new NumberServiceImpl
func NewNumberService(numberRepo repositories.PhoneNumberRepository, callRepo repositories.CallRepository, lifecycle LifecycleService, cfg *config.Config) *NumberServiceImpl {
	guardHours := cfg.Pool.DeleteGuardHours
	if guardHours <= 0 {
		guardHours = 24
	}
	return &NumberServiceImpl{
		numberRepo:  numberRepo,
		callRepo:    callRepo,
		lifecycle:   lifecycle,
		guardWindow: time.Duration(guardHours) * time.Hour,
	}
}

// CreateNumber validates, normalizes and persists one number. The entity
// starts available and unassigned.
func (s *NumberServiceImpl) CreateNumber(ctx context.Context, req *models.CreateNumberRequest) (*models.PhoneNumber, error) {
	canonical, reason := utils.NormalizeMSISDN(req.Number)
	if reason != "" {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, reason)
	}
	if req.AreaCode == "" {
		return nil, fmt.Errorf("%w: areaCode is required", models.ErrValidation)
	}

	entity := &models.PhoneNumber{
		Number:     canonical,
		Status:     models.StatusAvailable,
		AssignedTo: models.Unassigned,
		AreaCode:   req.AreaCode,
		Name:       req.Name,
		Address:    req.Address,
	}
	if err := s.numberRepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	slog.Info("Number created", "number", utils.MaskNumber(canonical), "areaCode", req.AreaCode)
	return entity, nil
}

// GetNumber fetches a number, accepting any normalizable form of it
func (s *NumberServiceImpl) GetNumber(ctx context.Context, number string) (*models.PhoneNumber, error) {
	canonical, reason := utils.NormalizeMSISDN(number)
	if reason != "" {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, reason)
	}
	return s.numberRepo.FindByNumber(ctx, canonical)
}

// UpdateNumber patches the owner metadata; name and address are the only
// fields mutable after creation
func (s *NumberServiceImpl) UpdateNumber(ctx context.Context, number, name, address string) (*models.PhoneNumber, error) {
	canonical, reason := utils.NormalizeMSISDN(number)
	if reason != "" {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, reason)
	}
	if name == "" && address == "" {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}
	return s.numberRepo.UpdateMetadata(ctx, canonical, name, address)
}

// DeleteNumber removes a number if the deletion guard allows it
func (s *NumberServiceImpl) DeleteNumber(ctx context.Context, number string) error {
	canonical, reason := utils.NormalizeMSISDN(number)
	if reason != "" {
		return fmt.Errorf("%w: %s", models.ErrValidation, reason)
	}

	entity, err := s.numberRepo.FindByNumber(ctx, canonical)
	if err != nil {
		return err
	}

	veto, err := s.deleteVeto(ctx, entity)
	if err != nil {
		return fmt.Errorf("failed to evaluate deletion guard: %w", err)
	}
	if veto != "" {
		return &models.CannotDeleteError{Number: canonical, Reason: veto}
	}

	if err := s.numberRepo.Delete(ctx, canonical); err != nil {
		return err
	}
	slog.Info("Number deleted", "number", utils.MaskNumber(canonical))
	return nil
}

// ResetNumber returns a number to the available pool. Only assigned and
// completed numbers can be reset; a number on an active call rejects it.
func (s *NumberServiceImpl) ResetNumber(ctx context.Context, number string) (*models.PhoneNumber, error) {
	canonical, reason := utils.NormalizeMSISDN(number)
	if reason != "" {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, reason)
	}

	applied, err := s.lifecycle.Transition(ctx, canonical, ResetEvent())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: number %s cannot be reset from its current status",
			models.ErrStateConflict, utils.MaskNumber(canonical))
	}

	slog.Info("Number reset", "number", utils.MaskNumber(canonical))
	return s.numberRepo.FindByNumber(ctx, canonical)
}

// BulkDeleteByAreaCode applies the deletion guard across one area code.
// force bypasses the guard entirely. A failing delete is recorded and the
// iteration continues; one bad number never aborts the batch.
func (s *NumberServiceImpl) BulkDeleteByAreaCode(ctx context.Context, areaCode string, force bool) (*models.BulkDeleteResult, error) {
	if areaCode == "" {
		return nil, fmt.Errorf("%w: areaCode is required", models.ErrValidation)
	}

	numbers, err := s.numberRepo.FindByAreaCode(ctx, areaCode)
	if err != nil {
		return nil, fmt.Errorf("failed to scan area code %s: %w", areaCode, err)
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("%w: area code %s has no numbers", models.ErrNotFound, areaCode)
	}

	result := &models.BulkDeleteResult{
		AreaCode: areaCode,
		Deleted:  []string{},
		Skipped:  []models.SkippedNumber{},
		Errors:   []models.SkippedNumber{},
	}

	for _, entity := range numbers {
		if !force {
			veto, gerr := s.deleteVeto(ctx, entity)
			if gerr != nil {
				result.Errors = append(result.Errors, models.SkippedNumber{
					Number: entity.Number, Reason: gerr.Error(),
				})
				continue
			}
			if veto != "" {
				result.Skipped = append(result.Skipped, models.SkippedNumber{
					Number: entity.Number, Reason: veto,
				})
				continue
			}
		}

		if derr := s.numberRepo.Delete(ctx, entity.Number); derr != nil {
			result.Errors = append(result.Errors, models.SkippedNumber{
				Number: entity.Number, Reason: derr.Error(),
			})
			continue
		}
		result.Deleted = append(result.Deleted, entity.Number)
	}

	result.DeletedCount = len(result.Deleted)
	result.SkippedCount = len(result.Skipped)
	result.ErrorCount = len(result.Errors)
	switch {
	case result.DeletedCount > 0 && result.SkippedCount == 0 && result.ErrorCount == 0:
		result.Outcome = models.BulkDeleteFull
	case result.DeletedCount > 0:
		result.Outcome = models.BulkDeletePartial
	default:
		result.Outcome = models.BulkDeleteFailed
	}

	slog.Info("Bulk delete completed",
		"areaCode", areaCode, "force", force, "outcome", result.Outcome,
		"deleted", result.DeletedCount, "skipped", result.SkippedCount, "errors", result.ErrorCount)
	return result, nil
}

// ListAvailableAreaCodes reports available inventory per area code
func (s *NumberServiceImpl) ListAvailableAreaCodes(ctx context.Context) ([]models.AreaCodeCount, error) {
	return s.numberRepo.AvailableAreaCodeCounts(ctx)
}

// Stats reports the pool broken down by status, scoped to one caller's
// numbers when userID is given
func (s *NumberServiceImpl) Stats(ctx context.Context, userID string) (*models.PoolStats, error) {
	return s.numberRepo.StatusCounts(ctx, userID)
}

// deleteVeto is the deletion guard: a number on an active call, or with any
// call inside the guard window, must not be deleted. The window protects
// numbers with fresh in-flight activity even when status bookkeeping is
// momentarily stale. An empty return means deletion is allowed.
func (s *NumberServiceImpl) deleteVeto(ctx context.Context, entity *models.PhoneNumber) (string, error) {
	if entity.Status == models.StatusInUse {
		return "number is on an active call", nil
	}

	since := time.Now().Add(-s.guardWindow)
	recent, err := s.callRepo.CountSince(ctx, entity.Number, since)
	if err != nil {
		return "", err
	}
	if recent > 0 {
		return fmt.Sprintf("number has call activity within the last %s", s.guardWindow), nil
	}
	return "", nil
}
