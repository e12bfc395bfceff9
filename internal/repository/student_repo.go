package repository

import (
	"context"

	"gorm.io/gorm"

	"od-portal/backend/internal/model"
)

// StudentRepository student roster access
type StudentRepository interface {
	GetByID(ctx context.Context, id string) (*model.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]model.Student, error)
	ListIDs(ctx context.Context, filter StudentFilter) ([]string, error)
	ListBatches(ctx context.Context) ([]int, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Tutor").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, filter StudentFilter) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Preload("Tutor").
		Scopes(scopeStudents(filter)).
		Order("batch, register_number").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListIDs(ctx context.Context, filter StudentFilter) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Scopes(scopeStudents(filter)).
		Pluck("student_id", &ids).Error
	return ids, err
}

// ListBatches distinct batches known from the roster or the term calendar
func (r *studentRepo) ListBatches(ctx context.Context) ([]int, error) {
	var batches []int
	err := r.db.WithContext(ctx).Raw(`
		SELECT batch FROM students WHERE deleted_at IS NULL
		UNION
		SELECT batch FROM semester_schedules
		ORDER BY batch`).
		Scan(&batches).Error
	return batches, err
}
