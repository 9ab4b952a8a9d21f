// Package organizer holds the game authoring dialog: an organizer picks a
// catalog event without a game yet and fills in its checkpoints and quiz
// questions, by hand or from a generated draft.
package organizer

import (
	"context"
	"errors"
	"strings"

	"github.com/nlypage/intele"
	"github.com/nlypage/intele/collector"
	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/cmd/bot"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/catalog"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/database/postgres"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/gigachat"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/service"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/utils/validator"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

type userService interface {
	Get(ctx context.Context, userID int64) (*entity.User, error)
}

type eventGameService interface {
	Create(ctx context.Context, event entity.CatalogEvent, checkpoints []string, questions []entity.Question) (*entity.EventGame, error)
	ParseCheckpoints(text string) ([]string, error)
	ParseQuestions(text string) ([]entity.Question, error)
	GenerateCheckpoints(ctx context.Context, event entity.CatalogEvent) ([]string, error)
	GenerateQuestions(ctx context.Context, event entity.CatalogEvent) ([]entity.Question, error)
}

type eventsCatalog interface {
	Event(eventID string) (entity.CatalogEvent, error)
}

type Handler struct {
	userService      userService
	eventGameService eventGameService
	catalog          eventsCatalog

	input  *intele.InputManager
	layout *layout.Layout
	logger *types.Logger
}

func New(b *bot.Bot) *Handler {
	drafter := gigachat.NewClient(
		viper.GetString("service.gigachat.api-url"),
		viper.GetString("service.gigachat.token"),
		viper.GetString("service.gigachat.model"),
	)

	return &Handler{
		userService:      service.NewUserService(postgres.NewUserStorage(b.DB)),
		eventGameService: service.NewEventGameService(postgres.NewEventGameStorage(b.DB), drafter),
		catalog:          catalog.NewClient(viper.GetString("service.catalog.base-url"), b.Redis.Catalog, b.Logger),
		input:            b.Input,
		layout:           b.Layout,
		logger:           b.Logger,
	}
}

// CreateGame runs the full authoring dialog for one catalog event.
func (h Handler) CreateGame(c tele.Context) error {
	callbackData := strings.Split(c.Callback().Data, " ")
	if len(callbackData) != 2 {
		return errorz.ErrInvalidCallbackData
	}
	eventID := callbackData[0]
	h.logger.Infof("(user: %d) create game (event_id=%s)", c.Sender().ID, eventID)

	user, err := h.userService.Get(context.Background(), c.Sender().ID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting user from db: %v", c.Sender().ID, err)
		return c.Edit(h.layout.Text(c, "technical_issues", err.Error()))
	}
	if user.Role != entity.Organizer {
		return c.Respond(&tele.CallbackResponse{
			Text:      h.layout.Text(c, "organizer_only"),
			ShowAlert: true,
		})
	}

	event, err := h.catalog.Event(eventID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting event from catalog: %v", c.Sender().ID, err)
		if errors.Is(err, errorz.ErrSourceUnavailable) {
			return c.Edit(h.layout.Text(c, "catalog_unavailable"))
		}
		return c.Edit(h.layout.Text(c, "technical_issues", err.Error()))
	}

	checkpoints, ok := h.requestCheckpoints(c, event)
	if !ok {
		return nil
	}

	questions, ok := h.requestQuestions(c, event)
	if !ok {
		return nil
	}

	if _, err = h.eventGameService.Create(context.Background(), event, checkpoints, questions); err != nil {
		h.logger.Errorf("(user: %d) error while creating event game: %v", c.Sender().ID, err)
		return c.Send(
			h.layout.Text(c, "technical_issues", err.Error()),
			&tele.ReplyMarkup{RemoveKeyboard: true},
		)
	}
	h.logger.Infof("(user: %d) event game created (event_id=%s)", c.Sender().ID, eventID)

	return c.Send(
		h.layout.Text(c, "game_created", struct {
			Title string
		}{
			Title: event.Title,
		}),
		&tele.ReplyMarkup{RemoveKeyboard: true},
	)
}

func (h Handler) requestCheckpoints(c tele.Context, event entity.CatalogEvent) ([]string, bool) {
	inputCollector := collector.New()
	_ = c.Edit(h.layout.Text(c, "checkpoints_request", struct {
		Title string
	}{
		Title: event.Title,
	}))
	_ = c.Send(h.layout.Text(c, "generate_hint"), h.layout.Markup(c, "organizer:generate"))

	for {
		message, canceled, err := h.input.Get(context.Background(), c.Sender().ID, 0)
		if message != nil {
			inputCollector.Collect(message)
		}
		switch {
		case canceled:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true, ExcludeLast: true})
			return nil, false
		case err != nil:
			h.logger.Errorf("(user: %d) error while input checkpoints: %v", c.Sender().ID, err)
			_ = inputCollector.Send(c,
				h.layout.Text(c, "input_error", h.layout.Text(c, "checkpoints_retry")),
			)
		case message.Text == h.layout.Text(c, "generate_button"):
			draft, errDraft := h.eventGameService.GenerateCheckpoints(context.Background(), event)
			if errDraft != nil {
				h.logger.Errorf("(user: %d) checkpoints generation failed: %v", c.Sender().ID, errDraft)
				_ = inputCollector.Send(c, h.layout.Text(c, "generation_failed"))
				continue
			}
			_ = inputCollector.Send(c, h.layout.Text(c, "checkpoints_draft", struct {
				Draft string
			}{
				Draft: strings.Join(draft, "\n"),
			}))
		case !validator.Checkpoints(message.Text, nil):
			_ = inputCollector.Send(c, h.layout.Text(c, "invalid_checkpoints"))
		default:
			checkpoints, errParse := h.eventGameService.ParseCheckpoints(message.Text)
			if errParse != nil {
				_ = inputCollector.Send(c, h.layout.Text(c, "invalid_checkpoints"))
				continue
			}
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true})
			return checkpoints, true
		}
	}
}

func (h Handler) requestQuestions(c tele.Context, event entity.CatalogEvent) ([]entity.Question, bool) {
	inputCollector := collector.New()
	_ = c.Send(
		h.layout.Text(c, "questions_request", struct {
			Title string
		}{
			Title: event.Title,
		}),
		h.layout.Markup(c, "organizer:generate"),
	)

	for {
		message, canceled, err := h.input.Get(context.Background(), c.Sender().ID, 0)
		if message != nil {
			inputCollector.Collect(message)
		}
		switch {
		case canceled:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true, ExcludeLast: true})
			return nil, false
		case err != nil:
			h.logger.Errorf("(user: %d) error while input questions: %v", c.Sender().ID, err)
			_ = inputCollector.Send(c,
				h.layout.Text(c, "input_error", h.layout.Text(c, "questions_retry")),
			)
		case message.Text == h.layout.Text(c, "generate_button"):
			draft, errDraft := h.eventGameService.GenerateQuestions(context.Background(), event)
			if errDraft != nil {
				h.logger.Errorf("(user: %d) questions generation failed: %v", c.Sender().ID, errDraft)
				_ = inputCollector.Send(c, h.layout.Text(c, "generation_failed"))
				continue
			}
			_ = inputCollector.Send(c, h.layout.Text(c, "questions_draft", struct {
				Draft string
			}{
				Draft: formatQuestions(draft),
			}))
		case !validator.Questions(message.Text, nil):
			_ = inputCollector.Send(c, h.layout.Text(c, "invalid_questions"))
		default:
			questions, errParse := h.eventGameService.ParseQuestions(message.Text)
			if errParse != nil {
				_ = inputCollector.Send(c, h.layout.Text(c, "invalid_questions"))
				continue
			}
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true})
			return questions, true
		}
	}
}

func formatQuestions(questions []entity.Question) string {
	blocks := make([]string, 0, len(questions))
	for _, question := range questions {
		blocks = append(blocks, strings.Join([]string{
			question.Prompt,
			question.Options[0],
			question.Options[1],
			question.Options[2],
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
