package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"od-portal/backend/internal/model"
	pkgerrors "od-portal/backend/pkg/errors"
)

// SemesterScheduleRepository term calendar store. Rows are created or
// overwritten, never deleted.
type SemesterScheduleRepository interface {
	ListByBatch(ctx context.Context, batch int) ([]model.SemesterSchedule, error)
	Get(ctx context.Context, batch, semester int) (*model.SemesterSchedule, error)
	Create(ctx context.Context, schedule *model.SemesterSchedule) error
	Update(ctx context.Context, schedule *model.SemesterSchedule) error
}

type semesterScheduleRepo struct {
	db *gorm.DB
}

// NewSemesterScheduleRepo creates a SemesterScheduleRepository
func NewSemesterScheduleRepo(db *gorm.DB) SemesterScheduleRepository {
	return &semesterScheduleRepo{db: db}
}

func (r *semesterScheduleRepo) ListByBatch(ctx context.Context, batch int) ([]model.SemesterSchedule, error) {
	var rows []model.SemesterSchedule
	err := r.db.WithContext(ctx).
		Where("batch = ?", batch).
		Order("semester").
		Find(&rows).Error
	return rows, err
}

func (r *semesterScheduleRepo) Get(ctx context.Context, batch, semester int) (*model.SemesterSchedule, error) {
	var row model.SemesterSchedule
	err := r.db.WithContext(ctx).
		Where("batch = ? AND semester = ?", batch, semester).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts the first row of a (batch, semester); a concurrent insert of
// the same key reports ErrOptimisticLock
func (r *semesterScheduleRepo) Create(ctx context.Context, schedule *model.SemesterSchedule) error {
	if schedule.Version == 0 {
		schedule.Version = 1
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(schedule)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

// Update overwrites the dates when the stored version still equals
// schedule.Version, then bumps it
func (r *semesterScheduleRepo) Update(ctx context.Context, schedule *model.SemesterSchedule) error {
	oldVersion := schedule.Version
	result := r.db.WithContext(ctx).
		Model(&model.SemesterSchedule{}).
		Where("batch = ? AND semester = ? AND version = ?", schedule.Batch, schedule.Semester, oldVersion).
		Updates(map[string]interface{}{
			"start_date": schedule.StartDate,
			"end_date":   schedule.EndDate,
			"updated_by": schedule.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version = oldVersion + 1
	return nil
}
