package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
)

type EnrollmentStorage interface {
	Create(ctx context.Context, enrollment *entity.Enrollment) (*entity.Enrollment, error)
	Get(ctx context.Context, userID int64, eventID string) (*entity.Enrollment, error)
	GetByUserID(ctx context.Context, userID int64) ([]entity.Enrollment, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

type enrollmentEventGameStorage interface {
	GetMany(ctx context.Context, eventIDs []string) ([]entity.EventGame, error)
	ExistingIDs(ctx context.Context, eventIDs []string) ([]string, error)
}

// EnrollmentService decides which events a user may join and which enrolled
// games are currently playable. All filters are pure reads.
type EnrollmentService struct {
	enrollmentStorage EnrollmentStorage
	eventGameStorage  enrollmentEventGameStorage

	// How long after the event end its mini-games stay playable.
	eligibilityWindow time.Duration
}

func NewEnrollmentService(
	enrollmentStorage EnrollmentStorage,
	eventGameStorage enrollmentEventGameStorage,
	eligibilityWindow time.Duration,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentStorage: enrollmentStorage,
		eventGameStorage:  eventGameStorage,
		eligibilityWindow: eligibilityWindow,
	}
}

// Join enrolls the user into an event game with all flags false.
func (s *EnrollmentService) Join(ctx context.Context, userID int64, eventID string) (*entity.Enrollment, error) {
	_, err := s.enrollmentStorage.Get(ctx, userID, eventID)
	if err == nil {
		return nil, errorz.ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.enrollmentStorage.Create(ctx, &entity.Enrollment{
		UserID:  userID,
		EventID: eventID,
	})
}

func (s *EnrollmentService) Get(ctx context.Context, userID int64, eventID string) (*entity.Enrollment, error) {
	return s.enrollmentStorage.Get(ctx, userID, eventID)
}

func (s *EnrollmentService) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	return s.enrollmentStorage.CountByUserID(ctx, userID)
}

// EligibleRoughEvents filters the scraped catalog for a fresh join:
// participants see events with an authored game they have not joined yet,
// organizers see the complement set of events with no game authored.
func (s *EnrollmentService) EligibleRoughEvents(ctx context.Context, userID int64, role entity.Role, roughEvents []entity.RoughEvent) ([]entity.RoughEvent, error) {
	ids := make([]string, 0, len(roughEvents))
	for _, event := range roughEvents {
		ids = append(ids, event.ID)
	}

	existingIDs, err := s.eventGameStorage.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	hasGame := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		hasGame[id] = true
	}

	if role == entity.Organizer {
		var eligible []entity.RoughEvent
		for _, event := range roughEvents {
			if !hasGame[event.ID] {
				eligible = append(eligible, event)
			}
		}
		return eligible, nil
	}

	enrollments, err := s.enrollmentStorage.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	enrolled := make(map[string]bool, len(enrollments))
	for _, enrollment := range enrollments {
		enrolled[enrollment.EventID] = true
	}

	var eligible []entity.RoughEvent
	for _, event := range roughEvents {
		if hasGame[event.ID] && !enrolled[event.ID] {
			eligible = append(eligible, event)
		}
	}
	return eligible, nil
}

// CheckpointGames returns the enrolled games whose checkpoint traversal is
// currently playable: the event has started, its eligibility window has not
// passed, and the traversal is not completed yet.
func (s *EnrollmentService) CheckpointGames(ctx context.Context, userID int64, now time.Time) ([]entity.EventGame, error) {
	return s.pendingGames(ctx, userID, func(enrollment entity.Enrollment, game entity.EventGame) bool {
		return !enrollment.CheckpointsDone &&
			!now.Before(game.StartTime) &&
			!now.After(game.EndTime.Add(s.eligibilityWindow))
	})
}

// QuizGames returns the enrolled games whose quiz is currently playable: the
// event has ended, within the eligibility window, quiz not completed yet.
func (s *EnrollmentService) QuizGames(ctx context.Context, userID int64, now time.Time) ([]entity.EventGame, error) {
	return s.pendingGames(ctx, userID, func(enrollment entity.Enrollment, game entity.EventGame) bool {
		return !enrollment.QuestionsDone &&
			!now.Before(game.EndTime) &&
			!now.After(game.EndTime.Add(s.eligibilityWindow))
	})
}

func (s *EnrollmentService) pendingGames(ctx context.Context, userID int64, eligible func(entity.Enrollment, entity.EventGame) bool) ([]entity.EventGame, error) {
	enrollments, err := s.enrollmentStorage.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(enrollments))
	byEventID := make(map[string]entity.Enrollment, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.EventID)
		byEventID[enrollment.EventID] = enrollment
	}

	games, err := s.eventGameStorage.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	var pending []entity.EventGame
	for _, game := range games {
		if eligible(byEventID[game.EventID], game) {
			pending = append(pending, game)
		}
	}
	return pending, nil
}
