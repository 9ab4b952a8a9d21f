package user

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"
	"gorm.io/gorm"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/cmd/bot"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/catalog"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/database/postgres"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/callback"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/service"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

type userService interface {
	Get(ctx context.Context, userID int64) (*entity.User, error)
}

type enrollmentService interface {
	Join(ctx context.Context, userID int64, eventID string) (*entity.Enrollment, error)
	Get(ctx context.Context, userID int64, eventID string) (*entity.Enrollment, error)
	EligibleRoughEvents(ctx context.Context, userID int64, role entity.Role, roughEvents []entity.RoughEvent) ([]entity.RoughEvent, error)
	CheckpointGames(ctx context.Context, userID int64, now time.Time) ([]entity.EventGame, error)
	QuizGames(ctx context.Context, userID int64, now time.Time) ([]entity.EventGame, error)
}

type eventGameService interface {
	Get(ctx context.Context, eventID string) (*entity.EventGame, error)
}

type progressionService interface {
	AdvanceCheckpoints(ctx context.Context, userID int64, state callback.CheckpointState) (*service.CheckpointStep, *service.Completion, error)
	AdvanceQuiz(ctx context.Context, userID int64, state callback.QuizState) (*service.QuizStep, *service.Completion, error)
}

type eventsCatalog interface {
	RoughEvents() ([]entity.RoughEvent, error)
	Event(eventID string) (entity.CatalogEvent, error)
}

type Handler struct {
	userService       userService
	enrollmentService enrollmentService
	eventGameService  eventGameService
	progression       progressionService
	catalog           eventsCatalog

	layout *layout.Layout
	logger *types.Logger
}

func New(b *bot.Bot) *Handler {
	enrollmentStorage := postgres.NewEnrollmentStorage(b.DB)
	eventGameStorage := postgres.NewEventGameStorage(b.DB)

	return &Handler{
		userService: service.NewUserService(postgres.NewUserStorage(b.DB)),
		enrollmentService: service.NewEnrollmentService(
			enrollmentStorage,
			eventGameStorage,
			viper.GetDuration("settings.scheduler.eligibility-window"),
		),
		eventGameService: service.NewEventGameService(eventGameStorage, nil),
		progression:      service.NewProgressionService(eventGameStorage, enrollmentStorage),
		catalog:          catalog.NewClient(viper.GetString("service.catalog.base-url"), b.Redis.Catalog, b.Logger),
		layout:           b.Layout,
		logger:           b.Logger,
	}
}

func (h Handler) Hide(c tele.Context) error {
	return c.Delete()
}

func (h Handler) EventsList(c tele.Context) error {
	const eventsOnPage = 5
	h.logger.Infof("(user: %d) events list", c.Sender().ID)

	var (
		p        int
		prevPage int
		nextPage int
		err      error
		rows     []tele.Row
		menuRow  tele.Row
	)
	if c.Callback() != nil {
		p, err = strconv.Atoi(c.Callback().Data)
		if err != nil || p < 0 {
			return errorz.ErrInvalidCallbackData
		}
	}

	user, err := h.userService.Get(context.Background(), c.Sender().ID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting user from db: %v", c.Sender().ID, err)
		return h.reply(c, h.layout.Text(c, "technical_issues", err.Error()), nil)
	}

	roughEvents, err := h.catalog.RoughEvents()
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting events from catalog: %v", c.Sender().ID, err)
		if errors.Is(err, errorz.ErrSourceUnavailable) {
			return h.reply(c, h.layout.Text(c, "catalog_unavailable"), nil)
		}
		return h.reply(c, h.layout.Text(c, "technical_issues", err.Error()), nil)
	}

	eligible, err := h.enrollmentService.EligibleRoughEvents(context.Background(), c.Sender().ID, user.Role, roughEvents)
	if err != nil {
		h.logger.Errorf("(user: %d) error while filtering eligible events: %v", c.Sender().ID, err)
		return h.reply(c, h.layout.Text(c, "technical_issues", err.Error()), nil)
	}

	if len(eligible) == 0 {
		return h.reply(c, h.layout.Text(c, "no_events"), nil)
	}

	pagesCount := (len(eligible) - 1) / eventsOnPage
	if p > pagesCount {
		p = pagesCount
	}

	markup := c.Bot().NewMarkup()
	from := p * eventsOnPage
	to := from + eventsOnPage
	if to > len(eligible) {
		to = len(eligible)
	}
	for _, event := range eligible[from:to] {
		rows = append(rows, markup.Row(*h.layout.Button(c, "user:events:event", struct {
			ID    string
			Title string
			Date  string
			Page  int
		}{
			ID:    event.ID,
			Title: event.Title,
			Date:  event.Date.Format("02.01"),
			Page:  p,
		})))
	}

	if p == 0 {
		prevPage = pagesCount
	} else {
		prevPage = p - 1
	}
	if p >= pagesCount {
		nextPage = 0
	} else {
		nextPage = p + 1
	}

	menuRow = append(menuRow,
		*h.layout.Button(c, "user:events:prev_page", struct {
			Page int
		}{
			Page: prevPage,
		}),
		*h.layout.Button(c, "core:page_counter", struct {
			Page       int
			PagesCount int
		}{
			Page:       p + 1,
			PagesCount: pagesCount + 1,
		}),
		*h.layout.Button(c, "user:events:next_page", struct {
			Page int
		}{
			Page: nextPage,
		}),
	)
	rows = append(rows, menuRow)
	markup.Inline(rows...)

	return h.reply(c, h.layout.Text(c, "events_list"), markup)
}

func (h Handler) Event(c tele.Context) error {
	callbackData := strings.Split(c.Callback().Data, " ")
	if len(callbackData) != 2 {
		return errorz.ErrInvalidCallbackData
	}
	eventID := callbackData[0]
	page := callbackData[1]
	h.logger.Infof("(user: %d) event view (event_id=%s)", c.Sender().ID, eventID)

	user, err := h.userService.Get(context.Background(), c.Sender().ID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting user from db: %v", c.Sender().ID, err)
		return c.Edit(
			h.layout.Text(c, "technical_issues", err.Error()),
			h.layout.Markup(c, "user:events:back", struct {
				Page string
			}{
				Page: page,
			}),
		)
	}

	event, err := h.catalog.Event(eventID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting event from catalog: %v", c.Sender().ID, err)
		text := h.layout.Text(c, "technical_issues", err.Error())
		if errors.Is(err, errorz.ErrSourceUnavailable) {
			text = h.layout.Text(c, "catalog_unavailable")
		}
		return c.Edit(
			text,
			h.layout.Markup(c, "user:events:back", struct {
				Page string
			}{
				Page: page,
			}),
		)
	}

	var hasGame bool
	_, errGetGame := h.eventGameService.Get(context.Background(), eventID)
	if errGetGame != nil {
		if !errors.Is(errGetGame, errorz.ErrUnknownEventGame) {
			h.logger.Errorf("(user: %d) error while getting event game: %v", c.Sender().ID, errGetGame)
			return c.Edit(
				h.layout.Text(c, "technical_issues", errGetGame.Error()),
				h.layout.Markup(c, "user:events:back", struct {
					Page string
				}{
					Page: page,
				}),
			)
		}
	} else {
		hasGame = true
	}

	var enrolled bool
	_, errGetEnrollment := h.enrollmentService.Get(context.Background(), c.Sender().ID, eventID)
	if errGetEnrollment != nil {
		if !errors.Is(errGetEnrollment, gorm.ErrRecordNotFound) {
			h.logger.Errorf("(user: %d) error while getting enrollment: %v", c.Sender().ID, errGetEnrollment)
			return c.Edit(
				h.layout.Text(c, "technical_issues", errGetEnrollment.Error()),
				h.layout.Markup(c, "user:events:back", struct {
					Page string
				}{
					Page: page,
				}),
			)
		}
	} else {
		enrolled = true
	}

	if c.Callback().Unique == "events_join" && hasGame && !enrolled {
		_, err = h.enrollmentService.Join(context.Background(), c.Sender().ID, eventID)
		if err != nil && !errors.Is(err, errorz.ErrAlreadyEnrolled) {
			h.logger.Errorf("(user: %d) error while joining event: %v", c.Sender().ID, err)
			return c.Edit(
				h.layout.Text(c, "technical_issues", err.Error()),
				h.layout.Markup(c, "user:events:back", struct {
					Page string
				}{
					Page: page,
				}),
			)
		}
		enrolled = true
	}

	markup := c.Bot().NewMarkup()
	var rows []tele.Row
	if user.Role == entity.Organizer && !hasGame {
		rows = append(rows, markup.Row(*h.layout.Button(c, "organizer:create", struct {
			ID   string
			Page string
		}{
			ID:   eventID,
			Page: page,
		})))
	}
	if user.Role == entity.Participant && hasGame && !enrolled {
		rows = append(rows, markup.Row(*h.layout.Button(c, "user:events:join", struct {
			ID   string
			Page string
		}{
			ID:   eventID,
			Page: page,
		})))
	}
	rows = append(rows, markup.Row(*h.layout.Button(c, "user:events:back", struct {
		Page string
	}{
		Page: page,
	})))
	markup.Inline(rows...)

	_ = c.Edit(
		h.layout.Text(c, "event_text", struct {
			Title       string
			Rating      string
			Description string
			Address     string
			StartTime   string
			EndTime     string
			IsEnrolled  bool
		}{
			Title:       event.Title,
			Rating:      event.Rating,
			Description: event.Description,
			Address:     event.Address,
			StartTime:   event.StartTime.Format("02.01.2006 15:04"),
			EndTime:     event.EndTime.Format("02.01.2006 15:04"),
			IsEnrolled:  enrolled,
		}),
		markup,
	)
	return nil
}

// reply edits the callback message when there is one and sends otherwise, so
// list handlers can serve both commands and pagination callbacks.
func (h Handler) reply(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if markup != nil {
			return c.Edit(text, markup)
		}
		return c.Edit(text)
	}
	if markup != nil {
		return c.Send(text, markup)
	}
	return c.Send(text)
}
