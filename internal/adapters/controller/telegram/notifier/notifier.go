// Package notifier delivers scheduler notifications through the bot. It is
// the only part of the notification pipeline that knows about telegram.
package notifier

import (
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/service"
)

type Telegram struct {
	bot    *tele.Bot
	layout *layout.Layout
	locale string
}

func New(bot *tele.Bot, lt *layout.Layout, locale string) *Telegram {
	return &Telegram{
		bot:    bot,
		layout: lt,
		locale: locale,
	}
}

func (t *Telegram) Notify(user *entity.User, game entity.EventGame, trigger service.Trigger) error {
	var key string
	switch trigger {
	case service.TriggerPreStart:
		key = "notification_pre_start"
	case service.TriggerStart:
		key = "notification_start"
	case service.TriggerEnd:
		key = "notification_end"
	}

	_, err := t.bot.Send(
		&tele.Chat{ID: user.ID},
		t.layout.TextLocale(t.locale, key, struct {
			FullName string
			Title    string
			Start    string
			End      string
		}{
			FullName: user.FullName,
			Title:    game.Title,
			Start:    game.StartTime.Format("02.01.2006 15:04"),
			End:      game.EndTime.Format("02.01.2006 15:04"),
		}),
	)
	return err
}
