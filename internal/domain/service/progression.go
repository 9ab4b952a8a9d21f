package service

import (
	"context"
	"errors"
	"math/rand"

	"gorm.io/gorm"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/callback"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
)

type progressionEventGameStorage interface {
	Get(ctx context.Context, eventID string) (*entity.EventGame, error)
}

type progressionEnrollmentStorage interface {
	Complete(ctx context.Context, userID int64, eventID string, doneColumn string, points int) (bool, error)
}

// CheckpointStep is the next checkpoint prompt. Missed and Passed carry the
// freshly encoded tokens of the two outgoing choices.
type CheckpointStep struct {
	Title  string
	Prompt string
	Missed string
	Passed string
}

type QuizChoice struct {
	Label string
	Data  string
}

// QuizStep is the next question prompt. Choices are already shuffled; the
// encoded correctness of each choice stays canonical regardless of position.
type QuizStep struct {
	Title        string
	Prompt       string
	ShowFeedback bool
	LastCorrect  bool
	Choices      []QuizChoice
}

// Completion is the terminal outcome of a traversal. AlreadyDone marks a
// replayed terminal token: nothing was credited.
type Completion struct {
	Title        string
	Points       int
	AlreadyDone  bool
	ShowFeedback bool
	LastCorrect  bool
}

// ProgressionService runs the two stateless mini-game state machines. All
// in-progress state arrives inside the decoded token; the service keeps
// nothing between steps.
type ProgressionService struct {
	eventGameStorage  progressionEventGameStorage
	enrollmentStorage progressionEnrollmentStorage
}

func NewProgressionService(
	eventGameStorage progressionEventGameStorage,
	enrollmentStorage progressionEnrollmentStorage,
) *ProgressionService {
	return &ProgressionService{
		eventGameStorage:  eventGameStorage,
		enrollmentStorage: enrollmentStorage,
	}
}

func (s *ProgressionService) game(ctx context.Context, eventID string) (*entity.EventGame, error) {
	game, err := s.eventGameStorage.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorz.ErrUnknownEventGame
		}
		return nil, err
	}
	return game, nil
}

// AdvanceCheckpoints computes the next presentation of a checkpoint run.
// Exactly one of the two results is non-nil on success.
func (s *ProgressionService) AdvanceCheckpoints(ctx context.Context, userID int64, state callback.CheckpointState) (*CheckpointStep, *Completion, error) {
	game, err := s.game(ctx, state.EventID)
	if err != nil {
		return nil, nil, err
	}

	if state.Stop > len(game.Checkpoints) {
		return nil, nil, errorz.ErrMalformedToken
	}

	if state.Stop == len(game.Checkpoints) {
		alreadyDone, errComplete := s.enrollmentStorage.Complete(ctx, userID, state.EventID, "checkpoints_done", state.Points)
		if errComplete != nil {
			return nil, nil, errComplete
		}
		return nil, &Completion{
			Title:       game.Title,
			Points:      state.Points,
			AlreadyDone: alreadyDone,
		}, nil
	}

	return &CheckpointStep{
		Title:  game.Title,
		Prompt: game.Checkpoints[state.Stop],
		Missed: callback.CheckpointState{
			EventID: state.EventID,
			Stop:    state.Stop + 1,
			Points:  state.Points,
		}.Encode(),
		Passed: callback.CheckpointState{
			EventID: state.EventID,
			Stop:    state.Stop + 1,
			Points:  state.Points + 1,
		}.Encode(),
	}, nil, nil
}

// AdvanceQuiz computes the next presentation of a quiz run.
func (s *ProgressionService) AdvanceQuiz(ctx context.Context, userID int64, state callback.QuizState) (*QuizStep, *Completion, error) {
	game, err := s.game(ctx, state.EventID)
	if err != nil {
		return nil, nil, err
	}

	showFeedback := state.Question != 0

	if state.Question > len(game.Questions) {
		return nil, nil, errorz.ErrMalformedToken
	}

	if state.Question == len(game.Questions) {
		alreadyDone, errComplete := s.enrollmentStorage.Complete(ctx, userID, state.EventID, "questions_done", state.Points)
		if errComplete != nil {
			return nil, nil, errComplete
		}
		return nil, &Completion{
			Title:        game.Title,
			Points:       state.Points,
			AlreadyDone:  alreadyDone,
			ShowFeedback: showFeedback,
			LastCorrect:  state.LastCorrect,
		}, nil
	}

	question := game.Questions[state.Question]
	choices := make([]QuizChoice, 0, len(question.Options))
	for i, option := range question.Options {
		correct := i == 0
		points := state.Points
		if correct {
			points++
		}
		choices = append(choices, QuizChoice{
			Label: option,
			Data: callback.QuizState{
				EventID:     state.EventID,
				Question:    state.Question + 1,
				Points:      points,
				LastCorrect: correct,
			}.Encode(),
		})
	}
	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return &QuizStep{
		Title:        game.Title,
		Prompt:       question.Prompt,
		ShowFeedback: showFeedback,
		LastCorrect:  state.LastCorrect,
		Choices:      choices,
	}, nil, nil
}
