package postgres

import (
	"context"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentStorage struct {
	db *gorm.DB
}

func NewEnrollmentStorage(db *gorm.DB) *EnrollmentStorage {
	return &EnrollmentStorage{
		db: db,
	}
}

func (s *EnrollmentStorage) Create(ctx context.Context, enrollment *entity.Enrollment) (*entity.Enrollment, error) {
	err := s.db.WithContext(ctx).Create(&enrollment).Error
	return enrollment, err
}

func (s *EnrollmentStorage) Get(ctx context.Context, userID int64, eventID string) (*entity.Enrollment, error) {
	var enrollment entity.Enrollment
	err := s.db.WithContext(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&enrollment).Error
	return &enrollment, err
}

func (s *EnrollmentStorage) GetByUserID(ctx context.Context, userID int64) ([]entity.Enrollment, error) {
	var enrollments []entity.Enrollment
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&enrollments).Error
	return enrollments, err
}

func (s *EnrollmentStorage) GetByEventID(ctx context.Context, eventID string) ([]entity.Enrollment, error) {
	var enrollments []entity.Enrollment
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&enrollments).Error
	return enrollments, err
}

func (s *EnrollmentStorage) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Enrollment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// SetNotified sets a single notification flag. The update is column-scoped so
// it cannot clobber the done flags written concurrently by the progression
// engine on the same row.
func (s *EnrollmentStorage) SetNotified(ctx context.Context, userID int64, eventID string, column string) error {
	return s.db.WithContext(ctx).
		Model(&entity.Enrollment{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Update(column, true).Error
}

// Complete commits a mini-game result: it locks the enrollment row, re-checks
// the done flag, and only if the flag is still false sets it and credits the
// points. Returns true when the enrollment was already completed, in which
// case nothing is written (a replayed terminal token must not double-credit).
func (s *EnrollmentStorage) Complete(ctx context.Context, userID int64, eventID string, doneColumn string, points int) (bool, error) {
	var alreadyDone bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment entity.Enrollment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND event_id = ?", userID, eventID).
			First(&enrollment).Error; err != nil {
			return err
		}

		switch doneColumn {
		case "checkpoints_done":
			alreadyDone = enrollment.CheckpointsDone
		case "questions_done":
			alreadyDone = enrollment.QuestionsDone
		}
		if alreadyDone {
			return nil
		}

		if err := tx.Model(&entity.Enrollment{}).
			Where("user_id = ? AND event_id = ?", userID, eventID).
			Update(doneColumn, true).Error; err != nil {
			return err
		}

		return tx.Model(&entity.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", points)).Error
	})
	return alreadyDone, err
}
