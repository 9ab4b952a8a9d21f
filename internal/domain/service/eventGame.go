package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
)

const (
	generationAttempts = 3
	draftLines         = 5
)

type EventGameStorage interface {
	Create(ctx context.Context, game *entity.EventGame) (*entity.EventGame, error)
	Get(ctx context.Context, eventID string) (*entity.EventGame, error)
	GetMany(ctx context.Context, eventIDs []string) ([]entity.EventGame, error)
	GetAll(ctx context.Context) ([]entity.EventGame, error)
	ExistingIDs(ctx context.Context, eventIDs []string) ([]string, error)
}

type contentDrafter interface {
	DraftCheckpoints(ctx context.Context, title, description string) (string, error)
	DraftQuestions(ctx context.Context, title, description string) (string, error)
}

type EventGameService struct {
	eventGameStorage EventGameStorage
	drafter          contentDrafter
}

func NewEventGameService(storage EventGameStorage, drafter contentDrafter) *EventGameService {
	return &EventGameService{
		eventGameStorage: storage,
		drafter:          drafter,
	}
}

// Create persists the authored game for one catalog event. Checkpoints and
// questions are immutable afterwards.
func (s *EventGameService) Create(ctx context.Context, event entity.CatalogEvent, checkpoints []string, questions []entity.Question) (*entity.EventGame, error) {
	return s.eventGameStorage.Create(ctx, &entity.EventGame{
		EventID:     event.ID,
		Title:       event.Title,
		Checkpoints: checkpoints,
		Questions:   questions,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
	})
}

func (s *EventGameService) Get(ctx context.Context, eventID string) (*entity.EventGame, error) {
	game, err := s.eventGameStorage.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorz.ErrUnknownEventGame
		}
		return nil, err
	}
	return game, nil
}

// ParseCheckpoints splits organizer input into checkpoint lines.
func (s *EventGameService) ParseCheckpoints(text string) ([]string, error) {
	var checkpoints []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			return nil, errorz.ErrValidation
		}
		checkpoints = append(checkpoints, line)
	}
	if len(checkpoints) == 0 {
		return nil, errorz.ErrValidation
	}
	return checkpoints, nil
}

// ParseQuestions parses organizer input: blank-line-separated blocks of a
// question followed by exactly three answers, the first one correct. The
// "Контрольный вопрос N:"/"Ответ N:" numbering prefixes are stripped.
func (s *EventGameService) ParseQuestions(text string) ([]entity.Question, error) {
	blocks := strings.Split(strings.TrimSpace(text), "\n\n")
	questions := make([]entity.Question, 0, len(blocks))
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) != 4 {
			return nil, errorz.ErrValidation
		}

		question := entity.Question{Prompt: stripPrefix(lines[0], "Контрольный вопрос")}
		for i := 0; i < 3; i++ {
			question.Options[i] = stripPrefix(lines[i+1], "Ответ")
			if question.Options[i] == "" {
				return nil, errorz.ErrValidation
			}
		}
		if question.Prompt == "" {
			return nil, errorz.ErrValidation
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func stripPrefix(line, prefix string) string {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, prefix) {
		return line
	}
	if _, rest, found := strings.Cut(line, ":"); found {
		return strings.TrimSpace(rest)
	}
	return line
}

// GenerateCheckpoints asks the content generator to draft checkpoint lines,
// validating the draft's shape only. Up to three attempts before giving up
// with errorz.ErrGenerationFailed.
func (s *EventGameService) GenerateCheckpoints(ctx context.Context, event entity.CatalogEvent) ([]string, error) {
	for attempt := 0; attempt < generationAttempts; attempt++ {
		draft, err := s.drafter.DraftCheckpoints(ctx, event.Title, event.Description)
		if err != nil {
			return nil, err
		}

		checkpoints, errParse := s.ParseCheckpoints(draft)
		if errParse != nil || len(checkpoints) != draftLines {
			continue
		}
		return checkpoints, nil
	}
	return nil, errorz.ErrGenerationFailed
}

// GenerateQuestions drafts quiz questions the same way: shape is validated,
// semantic correctness never is.
func (s *EventGameService) GenerateQuestions(ctx context.Context, event entity.CatalogEvent) ([]entity.Question, error) {
	for attempt := 0; attempt < generationAttempts; attempt++ {
		draft, err := s.drafter.DraftQuestions(ctx, event.Title, event.Description)
		if err != nil {
			return nil, err
		}

		questions, errParse := s.ParseQuestions(draft)
		if errParse != nil || len(questions) != draftLines {
			continue
		}
		return questions, nil
	}
	return nil, errorz.ErrGenerationFailed
}
