package middlewares

import (
	"context"
	"errors"
	"strings"

	"github.com/nlypage/intele"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"
	"gorm.io/gorm"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/cmd/bot"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/database/postgres"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/service"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

type userService interface {
	Get(ctx context.Context, userID int64) (*entity.User, error)
}

type Handler struct {
	bot         *tele.Bot
	layout      *layout.Layout
	logger      *types.Logger
	userService userService
	input       *intele.InputManager
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		bot:         b.Bot,
		layout:      b.Layout,
		logger:      b.Logger,
		userService: service.NewUserService(postgres.NewUserStorage(b.DB)),
		input:       b.Input,
	}
}

// Registered rejects updates from users that never went through /register.
func (h Handler) Registered(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		_, err := h.userService.Get(context.Background(), c.Sender().ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				h.logger.Errorf("(user: %d) error while getting user from db: %v", c.Sender().ID, err)
				return c.Send(
					h.layout.Text(c, "technical_issues", err.Error()),
				)
			}
			return c.Send(
				h.layout.Text(c, "registration_required"),
			)
		}

		return next(c)
	}
}

// ResetInputOnBack middleware clears the input state when the back button is
// pressed or a command arrives mid-dialog.
func (h Handler) ResetInputOnBack(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			if strings.Contains(c.Callback().Data, "back") || strings.Contains(c.Callback().Unique, "back") {
				h.input.Cancel(c.Sender().ID)
			}
		}
		if c.Message() != nil {
			if strings.HasPrefix(c.Message().Text, "/") {
				h.input.Cancel(c.Sender().ID)
			}
		}

		return next(c)
	}
}
