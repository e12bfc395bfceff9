package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"od-portal/backend/internal/model"
)

// ExceptionDayRepository exception day registry
type ExceptionDayRepository interface {
	// Create inserts day unless its date is already registered; inserted is
	// false when another row holds the date
	Create(ctx context.Context, day *model.ExceptionDay) (inserted bool, err error)
	GetByID(ctx context.Context, id string) (*model.ExceptionDay, error)
	GetByDate(ctx context.Context, date time.Time) (*model.ExceptionDay, error)
	// List returns days ordered by date; nil bounds are open
	List(ctx context.Context, from, to *time.Time) ([]model.ExceptionDay, error)
	Delete(ctx context.Context, id string) error
}

type exceptionDayRepo struct {
	db *gorm.DB
}

// NewExceptionDayRepo creates an ExceptionDayRepository
func NewExceptionDayRepo(db *gorm.DB) ExceptionDayRepository {
	return &exceptionDayRepo{db: db}
}

func (r *exceptionDayRepo) Create(ctx context.Context, day *model.ExceptionDay) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "date"}}, DoNothing: true}).
		Create(day)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *exceptionDayRepo) GetByID(ctx context.Context, id string) (*model.ExceptionDay, error) {
	var day model.ExceptionDay
	err := r.db.WithContext(ctx).
		Where("exception_day_id = ?", id).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *exceptionDayRepo) GetByDate(ctx context.Context, date time.Time) (*model.ExceptionDay, error) {
	var day model.ExceptionDay
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Order("created_at").
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *exceptionDayRepo) List(ctx context.Context, from, to *time.Time) ([]model.ExceptionDay, error) {
	var days []model.ExceptionDay
	query := r.db.WithContext(ctx)
	if from != nil {
		query = query.Where("date >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		query = query.Where("date <= ?", to.Format("2006-01-02"))
	}
	err := query.Order("date").Find(&days).Error
	return days, err
}

func (r *exceptionDayRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("exception_day_id = ?", id).
		Delete(&model.ExceptionDay{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
