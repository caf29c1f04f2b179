package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/callops-backend/internal/config"
	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	"github.com/ArowuTest/callops-backend/internal/utils"
	"github.com/ArowuTest/callops-backend/pkg/blobstore"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const processingFailureReason = "processing failed, row skipped"

// Compile-time check to ensure BulkServiceImpl implements BulkService
var _ BulkService = (*BulkServiceImpl)(nil)

// BulkServiceImpl is the chunked ingestion pipeline. Chunking bounds memory
// and store round-trip size and gives incremental progress reporting; it has
// no correctness role. Rows already persisted stay persisted whatever happens
// to later rows.
type BulkServiceImpl struct {
	numberRepo repositories.PhoneNumberRepository
	reports    blobstore.Store
	chunkSize  int
	maxRows    int
}

// NewBulkService creates a new BulkServiceImpl. reports may be nil, in which
// case run reports are not archived.
func NewBulkService(numberRepo repositories.PhoneNumberRepository, reports blobstore.Store, cfg *config.Config) *BulkServiceImpl {
	chunkSize := cfg.Pool.BulkChunkSize
	if chunkSize <= 0 {
		chunkSize = 50
	}
	maxRows := cfg.Pool.MaxBulkRows
	if maxRows <= 0 {
		maxRows = 10000
	}
	return &BulkServiceImpl{
		numberRepo: numberRepo,
		reports:    reports,
		chunkSize:  chunkSize,
		maxRows:    maxRows,
	}
}

// BulkCreate validates, deduplicates and persists up to the row cap of
// candidate numbers, chunk by chunk. A row-level failure never aborts the
// chunk or the run; it is counted and listed and processing continues.
// Re-running the same input is safe: everything created before reclassifies
// as a duplicate.
func (s *BulkServiceImpl) BulkCreate(ctx context.Context, rows []models.NumberRow) (*models.BulkCreateResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows supplied", models.ErrValidation)
	}
	if len(rows) > s.maxRows {
		return nil, fmt.Errorf("%w: %d rows exceeds the %d row limit", models.ErrValidation, len(rows), s.maxRows)
	}

	result := &models.BulkCreateResult{
		Summary: models.BulkSummary{TotalRows: len(rows)},
		Batches: []models.BatchResult{},
	}

	for start := 0; start < len(rows); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := s.processChunk(ctx, len(result.Batches)+1, rows[start:end])
		result.Batches = append(result.Batches, batch)
		result.Summary.Created += batch.Created
		result.Summary.Duplicates += batch.Duplicates
		result.Summary.Invalid += batch.Invalid
		result.Summary.Errors += batch.Errors

		slog.Info("Bulk chunk processed",
			"chunk", batch.Chunk, "created", batch.Created, "duplicates", batch.Duplicates,
			"invalid", batch.Invalid, "errors", batch.Errors, "elapsedMs", batch.ElapsedMs)
	}

	s.archiveReport(ctx, result)

	slog.Info("Bulk ingestion completed",
		"totalRows", result.Summary.TotalRows, "created", result.Summary.Created,
		"duplicates", result.Summary.Duplicates, "invalid", result.Summary.Invalid,
		"errors", result.Summary.Errors)
	return result, nil
}

// processChunk runs one fixed-size chunk to completion
func (s *BulkServiceImpl) processChunk(ctx context.Context, chunkIndex int, rows []models.NumberRow) models.BatchResult {
	startedAt := time.Now()
	batch := models.BatchResult{
		Chunk:            chunkIndex,
		CreatedNumbers:   []*models.PhoneNumber{},
		DuplicateNumbers: []string{},
		InvalidRows:      []models.InvalidRow{},
	}

	for _, row := range rows {
		s.processRow(ctx, row, &batch)
	}

	batch.ElapsedMs = time.Since(startedAt).Milliseconds()
	return batch
}

// processRow classifies one candidate row as created, duplicate or invalid.
// Store failures are the hard-error class: counted, listed with a generic
// reason, never propagated.
func (s *BulkServiceImpl) processRow(ctx context.Context, row models.NumberRow, batch *models.BatchResult) {
	if row.Number == "" || row.AreaCode == "" {
		batch.Invalid++
		batch.InvalidRows = append(batch.InvalidRows, models.InvalidRow{
			Number: row.Number,
			Reason: "number and areaCode are required",
		})
		return
	}

	canonical, reason := utils.NormalizeMSISDN(row.Number)
	if reason != "" {
		batch.Invalid++
		batch.InvalidRows = append(batch.InvalidRows, models.InvalidRow{
			Number: row.Number,
			Reason: reason,
		})
		return
	}

	_, err := s.numberRepo.FindByNumber(ctx, canonical)
	if err == nil {
		batch.Duplicates++
		batch.DuplicateNumbers = append(batch.DuplicateNumbers, canonical)
		return
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.recordHardError(batch, canonical, err)
		return
	}

	entity := &models.PhoneNumber{
		Number:     canonical,
		Status:     models.StatusAvailable,
		AssignedTo: models.Unassigned,
		AreaCode:   row.AreaCode,
		Name:       row.Name,
		Address:    row.Address,
	}
	if err := s.numberRepo.Create(ctx, entity); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			// Lost an insert race within this run or with another writer.
			batch.Duplicates++
			batch.DuplicateNumbers = append(batch.DuplicateNumbers, canonical)
			return
		}
		s.recordHardError(batch, canonical, err)
		return
	}

	batch.Created++
	batch.CreatedNumbers = append(batch.CreatedNumbers, entity)
}

func (s *BulkServiceImpl) recordHardError(batch *models.BatchResult, number string, err error) {
	slog.Error("Bulk row failed", "error", err, "number", utils.MaskNumber(number))
	batch.Errors++
	batch.InvalidRows = append(batch.InvalidRows, models.InvalidRow{
		Number: number,
		Reason: processingFailureReason,
	})
}

// archiveReport writes the run report to the blob store for the audit trail.
// Best effort: a failed archive never fails the run.
func (s *BulkServiceImpl) archiveReport(ctx context.Context, result *models.BulkCreateResult) {
	if s.reports == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		slog.Error("Failed to encode bulk report", "error", err)
		return
	}

	key := fmt.Sprintf("bulk-reports/%s-%s.json", time.Now().Format("20060102-150405"), uuid.NewString())
	url, err := s.reports.Put(ctx, key, payload, "application/json")
	if err != nil {
		slog.Error("Failed to archive bulk report", "error", err, "key", key)
		return
	}
	result.ReportURL = url
}
