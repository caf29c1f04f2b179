package repositories

import (
	"context"
	"time"

	"github.com/ArowuTest/callops-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhoneNumberRepository defines the store adapter for pool numbers. The
// store offers per-document atomicity only; nothing here assumes cross-item
// transactions. Scan methods follow store-side pagination to exhaustion
// before returning, so callers always see a complete result set.
type PhoneNumberRepository interface {
	Create(ctx context.Context, number *models.PhoneNumber) error
	FindByNumber(ctx context.Context, number string) (*models.PhoneNumber, error)
	// UpdateMetadata patches the two mutable fields and returns the updated
	// entity, or models.ErrNotFound.
	UpdateMetadata(ctx context.Context, number, name, address string) (*models.PhoneNumber, error)
	Delete(ctx context.Context, number string) error
	// FindAvailable returns up to limit available numbers, optionally scoped
	// to an area code. Ordering is store order.
	FindAvailable(ctx context.Context, areaCode string, limit int64) ([]*models.PhoneNumber, error)
	// FindAssignedTo returns numbers currently held by a caller in any of the
	// given statuses.
	FindAssignedTo(ctx context.Context, userID, areaCode string, statuses []models.NumberStatus, limit int64) ([]*models.PhoneNumber, error)
	FindByAreaCode(ctx context.Context, areaCode string) ([]*models.PhoneNumber, error)
	// UpdateStatusIf applies a status change only while the document is still
	// in one of the expected prior states. A false return means the write
	// matched nothing: the number is missing, was raced, or the transition
	// is illegal for its current state.
	UpdateStatusIf(ctx context.Context, number string, from []models.NumberStatus, change models.StatusChange) (bool, error)
	AvailableAreaCodeCounts(ctx context.Context) ([]models.AreaCodeCount, error)
	// StatusCounts aggregates the pool by status, scoped to one caller's
	// numbers when userID is non-empty.
	StatusCounts(ctx context.Context, userID string) (*models.PoolStats, error)
}

// CallRepository defines read/write access to call records. The records are
// owned by the calling workflow; the pool reads them for lifecycle and
// deletion decisions.
type CallRepository interface {
	Create(ctx context.Context, call *models.Call) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Call, error)
	Update(ctx context.Context, call *models.Call) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByPhoneNumber(ctx context.Context, number string) ([]*models.Call, error)
	FindByUserID(ctx context.Context, userID string) ([]*models.Call, error)
	CountSince(ctx context.Context, number string, since time.Time) (int64, error)
}

// AdminUserRepository defines the interface for backoffice account operations
type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
