package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ArowuTest/callops-backend/internal/config"
	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeNumberRepo is an in-memory PhoneNumberRepository. Insertion order is
// preserved so scans are deterministic, which stands in for store order.
type fakeNumberRepo struct {
	mu    sync.Mutex
	order []string
	items map[string]*models.PhoneNumber

	// failFind injects a store failure for specific keys on FindByNumber
	failFind map[string]error
	// beforeStatusWrite runs inside UpdateStatusIf before the check, to
	// simulate a concurrent writer getting there first
	beforeStatusWrite func(number string)
}

var _ repositories.PhoneNumberRepository = (*fakeNumberRepo)(nil)

func newFakeNumberRepo() *fakeNumberRepo {
	return &fakeNumberRepo{
		items:    make(map[string]*models.PhoneNumber),
		failFind: make(map[string]error),
	}
}

// seed inserts an entity directly, bypassing Create bookkeeping
func (f *fakeNumberRepo) seed(entity *models.PhoneNumber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *entity
	f.items[copied.Number] = &copied
	f.order = append(f.order, copied.Number)
}

func (f *fakeNumberRepo) get(number string) *models.PhoneNumber {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[number]
}

func (f *fakeNumberRepo) Create(_ context.Context, number *models.PhoneNumber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.items[number.Number]; exists {
		return fmt.Errorf("%w: %s", models.ErrDuplicate, number.Number)
	}
	number.CreatedAt = time.Now()
	number.UpdatedAt = time.Now()
	copied := *number
	f.items[copied.Number] = &copied
	f.order = append(f.order, copied.Number)
	return nil
}

func (f *fakeNumberRepo) FindByNumber(_ context.Context, number string) (*models.PhoneNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFind[number]; ok {
		return nil, err
	}
	entity, ok := f.items[number]
	if !ok {
		return nil, fmt.Errorf("%w: number %s", models.ErrNotFound, number)
	}
	copied := *entity
	return &copied, nil
}

func (f *fakeNumberRepo) UpdateMetadata(_ context.Context, number, name, address string) (*models.PhoneNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entity, ok := f.items[number]
	if !ok {
		return nil, fmt.Errorf("%w: number %s", models.ErrNotFound, number)
	}
	if name != "" {
		entity.Name = name
	}
	if address != "" {
		entity.Address = address
	}
	entity.UpdatedAt = time.Now()
	copied := *entity
	return &copied, nil
}

func (f *fakeNumberRepo) Delete(_ context.Context, number string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[number]; !ok {
		return fmt.Errorf("%w: number %s", models.ErrNotFound, number)
	}
	delete(f.items, number)
	for i, n := range f.order {
		if n == number {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeNumberRepo) FindAvailable(_ context.Context, areaCode string, limit int64) ([]*models.PhoneNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.PhoneNumber
	for _, key := range f.order {
		entity := f.items[key]
		if entity.Status != models.StatusAvailable {
			continue
		}
		if areaCode != "" && entity.AreaCode != areaCode {
			continue
		}
		copied := *entity
		out = append(out, &copied)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNumberRepo) FindAssignedTo(_ context.Context, userID, areaCode string, statuses []models.NumberStatus, limit int64) ([]*models.PhoneNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[models.NumberStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	var out []*models.PhoneNumber
	for _, key := range f.order {
		entity := f.items[key]
		if entity.AssignedTo != userID || !wanted[entity.Status] {
			continue
		}
		if areaCode != "" && entity.AreaCode != areaCode {
			continue
		}
		copied := *entity
		out = append(out, &copied)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNumberRepo) FindByAreaCode(_ context.Context, areaCode string) ([]*models.PhoneNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.PhoneNumber
	for _, key := range f.order {
		entity := f.items[key]
		if entity.AreaCode != areaCode {
			continue
		}
		copied := *entity
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeNumberRepo) UpdateStatusIf(_ context.Context, number string, from []models.NumberStatus, change models.StatusChange) (bool, error) {
	if f.beforeStatusWrite != nil {
		f.beforeStatusWrite(number)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entity, ok := f.items[number]
	if !ok {
		return false, nil
	}
	legal := false
	for _, s := range from {
		if entity.Status == s {
			legal = true
			break
		}
	}
	if !legal {
		return false, nil
	}
	entity.Status = change.To
	if change.AssignedTo != "" {
		entity.AssignedTo = change.AssignedTo
	}
	if change.BatchID != "" {
		entity.BatchID = change.BatchID
	}
	if change.AssignedAt != nil {
		entity.AssignedAt = *change.AssignedAt
	}
	entity.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeNumberRepo) AvailableAreaCodeCounts(_ context.Context) ([]models.AreaCodeCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byCode := make(map[string]int64)
	var codes []string
	for _, key := range f.order {
		entity := f.items[key]
		if entity.Status != models.StatusAvailable {
			continue
		}
		if _, seen := byCode[entity.AreaCode]; !seen {
			codes = append(codes, entity.AreaCode)
		}
		byCode[entity.AreaCode]++
	}
	counts := []models.AreaCodeCount{}
	for _, code := range codes {
		counts = append(counts, models.AreaCodeCount{AreaCode: code, Count: byCode[code]})
	}
	return counts, nil
}

func (f *fakeNumberRepo) StatusCounts(_ context.Context, userID string) (*models.PoolStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.PoolStats{}
	for _, entity := range f.items {
		if userID != "" && entity.AssignedTo != userID {
			continue
		}
		stats.Total++
		switch entity.Status {
		case models.StatusAvailable:
			stats.Available++
		case models.StatusAssigned:
			stats.Assigned++
		case models.StatusInUse:
			stats.InUse++
		case models.StatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

// fakeCallRepo is an in-memory CallRepository
type fakeCallRepo struct {
	mu    sync.Mutex
	calls map[primitive.ObjectID]*models.Call
}

var _ repositories.CallRepository = (*fakeCallRepo)(nil)

func newFakeCallRepo() *fakeCallRepo {
	return &fakeCallRepo{calls: make(map[primitive.ObjectID]*models.Call)}
}

func (f *fakeCallRepo) Create(_ context.Context, call *models.Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if call.ID.IsZero() {
		call.ID = primitive.NewObjectID()
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now()
	}
	call.UpdatedAt = time.Now()
	copied := *call
	f.calls[copied.ID] = &copied
	return nil
}

func (f *fakeCallRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Call, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call, ok := f.calls[id]
	if !ok {
		return nil, fmt.Errorf("%w: call %s", models.ErrNotFound, id.Hex())
	}
	copied := *call
	return &copied, nil
}

func (f *fakeCallRepo) Update(_ context.Context, call *models.Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.calls[call.ID]; !ok {
		return fmt.Errorf("%w: call %s", models.ErrNotFound, call.ID.Hex())
	}
	call.UpdatedAt = time.Now()
	copied := *call
	f.calls[copied.ID] = &copied
	return nil
}

func (f *fakeCallRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.calls[id]; !ok {
		return fmt.Errorf("%w: call %s", models.ErrNotFound, id.Hex())
	}
	delete(f.calls, id)
	return nil
}

func (f *fakeCallRepo) FindByPhoneNumber(_ context.Context, number string) ([]*models.Call, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Call{}
	for _, call := range f.calls {
		if call.PhoneNumber == number {
			copied := *call
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCallRepo) FindByUserID(_ context.Context, userID string) ([]*models.Call, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Call{}
	for _, call := range f.calls {
		if call.UserID == userID {
			copied := *call
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCallRepo) CountSince(_ context.Context, number string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, call := range f.calls {
		if call.PhoneNumber == number && !call.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// testConfig returns a Config with the pool tunables tests rely on
func testConfig() *config.Config {
	return &config.Config{
		Pool: config.PoolConfig{
			AllocationScanCap: 1000,
			BulkChunkSize:     50,
			MaxBulkRows:       10000,
			DeleteGuardHours:  24,
		},
	}
}

// seedAvailable fills the repo with n available numbers in one area code,
// starting from 9000000000
func seedAvailable(repo *fakeNumberRepo, n int, areaCode string) []string {
	numbers := make([]string, 0, n)
	for i := 0; i < n; i++ {
		number := fmt.Sprintf("9%09d", i)
		repo.seed(&models.PhoneNumber{
			Number:     number,
			Status:     models.StatusAvailable,
			AssignedTo: models.Unassigned,
			AreaCode:   areaCode,
		})
		numbers = append(numbers, number)
	}
	return numbers
}
