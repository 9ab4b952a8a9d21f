package start

import (
	"context"
	"errors"

	"github.com/nlypage/intele"
	"github.com/nlypage/intele/collector"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"
	"gorm.io/gorm"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/cmd/bot"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/database/postgres"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/service"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/utils"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/utils/validator"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

type userService interface {
	Create(ctx context.Context, user entity.User) (*entity.User, error)
	Get(ctx context.Context, userID int64) (*entity.User, error)
}

type enrollmentService interface {
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

type Handler struct {
	userService       userService
	enrollmentService enrollmentService

	input  *intele.InputManager
	layout *layout.Layout
	logger *types.Logger
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		userService: service.NewUserService(postgres.NewUserStorage(b.DB)),
		enrollmentService: service.NewEnrollmentService(
			postgres.NewEnrollmentStorage(b.DB),
			postgres.NewEventGameStorage(b.DB),
			0,
		),
		input:  b.Input,
		layout: b.Layout,
		logger: b.Logger,
	}
}

// RegisterSetup wires the handlers that must stay reachable before the
// registration check.
func (h Handler) RegisterSetup(group *tele.Group) {
	group.Handle("/register", h.register)
	group.Handle("/help", h.help)
	group.Handle("/cancel", h.cancel)
}

func (h Handler) help(c tele.Context) error {
	return c.Send(h.layout.Text(c, "help_text"))
}

// cancel confirms the abort; the pending input itself is already cleared by
// the command passing through ResetInputOnBack.
func (h Handler) cancel(c tele.Context) error {
	return c.Send(
		h.layout.Text(c, "canceled"),
		&tele.ReplyMarkup{RemoveKeyboard: true},
	)
}

func (h Handler) register(c tele.Context) error {
	h.logger.Infof("(user: %d) registration started", c.Sender().ID)

	_, err := h.userService.Get(context.Background(), c.Sender().ID)
	if err == nil {
		return c.Send(h.layout.Text(c, "already_registered"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Errorf("(user: %d) error while getting user from db: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	fullName, ok := h.requestFullName(c)
	if !ok {
		return nil
	}

	role, ok := h.requestRole(c)
	if !ok {
		return nil
	}

	user := entity.User{
		ID:       c.Sender().ID,
		FullName: fullName,
		Role:     role,
	}
	if _, err = h.userService.Create(context.Background(), user); err != nil {
		h.logger.Errorf("(user: %d) error while creating new user: %v", c.Sender().ID, err)
		return c.Send(
			h.layout.Text(c, "technical_issues", err.Error()),
			&tele.ReplyMarkup{RemoveKeyboard: true},
		)
	}
	h.logger.Infof("(user: %d) new user created (role: %s)", c.Sender().ID, user.Role)

	return c.Send(
		h.layout.Text(c, "registration_done", struct {
			FullName string
		}{
			FullName: fullName,
		}),
		&tele.ReplyMarkup{RemoveKeyboard: true},
	)
}

func (h Handler) requestFullName(c tele.Context) (string, bool) {
	inputCollector := collector.New()
	_ = c.Send(h.layout.Text(c, "full_name_request"))
	inputCollector.Collect(c.Message())

	for {
		message, canceled, err := h.input.Get(context.Background(), c.Sender().ID, 0)
		if message != nil {
			inputCollector.Collect(message)
		}
		switch {
		case canceled:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true, ExcludeLast: true})
			return "", false
		case err != nil:
			h.logger.Errorf("(user: %d) error while input full name: %v", c.Sender().ID, err)
			_ = inputCollector.Send(c,
				h.layout.Text(c, "input_error", h.layout.Text(c, "full_name_request")),
			)
		case !validator.FullName(message.Text, nil):
			_ = inputCollector.Send(c,
				h.layout.Text(c, "invalid_full_name"),
			)
		default:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true})
			return message.Text, true
		}
	}
}

func (h Handler) requestRole(c tele.Context) (entity.Role, bool) {
	_ = c.Send(
		h.layout.Text(c, "role_request"),
		h.layout.Markup(c, "register:roles"),
	)

	for {
		message, canceled, err := h.input.Get(context.Background(), c.Sender().ID, 0)
		switch {
		case canceled:
			return "", false
		case err != nil:
			h.logger.Errorf("(user: %d) error while input role: %v", c.Sender().ID, err)
			_ = c.Send(h.layout.Text(c, "input_error", h.layout.Text(c, "role_request")))
		case message.Text == h.layout.Text(c, "role_participant"):
			return entity.Participant, true
		case message.Text == h.layout.Text(c, "role_organizer"):
			return entity.Organizer, true
		default:
			_ = c.Send(
				h.layout.Text(c, "invalid_role"),
				h.layout.Markup(c, "register:roles"),
			)
		}
	}
}

func (h Handler) Me(c tele.Context) error {
	h.logger.Infof("(user: %d) requested profile", c.Sender().ID)

	user, err := h.userService.Get(context.Background(), c.Sender().ID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting user from db: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	enrollmentsCount, err := h.enrollmentService.CountByUserID(context.Background(), c.Sender().ID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting enrollments count: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	return c.Send(h.layout.Text(c, "profile_text", struct {
		FullName    string
		Role        string
		Points      int
		PointsWord  string
		Enrollments int64
	}{
		FullName:    user.FullName,
		Role:        h.layout.Text(c, "role_"+user.Role.String()),
		Points:      user.Points,
		PointsWord:  utils.Declension(user.Points, "баллов", "балл", "балла"),
		Enrollments: enrollmentsCount,
	}))
}
