package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mentorbase/agenda-api/models"
)

// Repository is the storage surface the engine needs. The production
// implementation is GORM over Postgres; tests run the same code over an
// in-memory SQLite file.
type Repository interface {
	ScheduleConfigByOwner(ownerID uint) (*models.ScheduleConfig, error)
	ActiveBookingsForWindow(ownerID uint, from, to time.Time) ([]models.Booking, error)
	CommitBooking(ctx context.Context, b *models.Booking) error
	LinkByToken(token string) (*models.BookingLink, error)
	BumpLinkUsage(token string) error
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) ScheduleConfigByOwner(ownerID uint) (*models.ScheduleConfig, error) {
	var cfg models.ScheduleConfig
	if err := r.DB.Where("owner_id = ?", ownerID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewFlowError(CodeConfigUnavailable, "no schedule config for owner %d", ownerID)
		}
		return nil, NewFlowError(CodeConfigUnavailable, "could not load schedule config: %v", err)
	}
	return &cfg, nil
}

func (r *GormRepository) ActiveBookingsForWindow(ownerID uint, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.DB.
		Where("owner_id = ? AND status IN ? AND start_datetime < ? AND end_datetime > ?",
			ownerID, []models.BookingStatus{models.StatusScheduled, models.StatusConfirmed}, to, from).
		Order("start_datetime").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// CommitBooking is the single durable write of the booking flow: one
// transaction that re-checks for an overlapping booking with a row lock and
// inserts. The partial unique index on (owner_id, start_datetime) backstops
// the check across server instances, so a lost race surfaces as
// gorm.ErrDuplicatedKey rather than a double booking. Both outcomes map to
// SlotTaken.
func (r *GormRepository) CommitBooking(ctx context.Context, b *models.Booking) error {
	if b.EndDatetime.IsZero() {
		b.EndDatetime = b.StartDatetime.Add(time.Duration(b.DurationMin) * time.Minute)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("owner_id = ? AND status IN ? AND start_datetime < ? AND end_datetime > ?",
			b.OwnerID,
			[]models.BookingStatus{models.StatusScheduled, models.StatusConfirmed},
			b.EndDatetime, b.StartDatetime)
		// SQLite (tests) has no row locks; its writer lock serializes the
		// transaction anyway.
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var conflict models.Booking
		findErr := q.First(&conflict).Error
		if findErr == nil {
			return NewFlowError(CodeSlotTaken,
				"slot %s is already booked", b.StartDatetime.Format(time.RFC3339))
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		return tx.Create(b).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewFlowError(CodeSlotTaken,
				"slot %s was booked concurrently", b.StartDatetime.Format(time.RFC3339))
		}
		return err
	}
	return nil
}

func (r *GormRepository) LinkByToken(token string) (*models.BookingLink, error) {
	var link models.BookingLink
	if err := r.DB.Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewFlowError(CodeLinkExpiredOrInactive, "unknown booking link")
		}
		return nil, err
	}
	return &link, nil
}

func (r *GormRepository) BumpLinkUsage(token string) error {
	return r.DB.Model(&models.BookingLink{}).
		Where("token = ?", token).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
