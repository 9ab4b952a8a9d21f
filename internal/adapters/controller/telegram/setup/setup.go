package setup

import (
	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/cmd/bot"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/controller/telegram/handlers/organizer"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/controller/telegram/handlers/start"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/controller/telegram/handlers/user"
)

func Setup(b *bot.Bot) {
	// Pre-setup and global middlewares
	middle := middlewares.New(b)
	startHandler := start.New(b)
	userHandler := user.New(b)
	organizerHandler := organizer.New(b)

	if viper.GetBool("settings.debug") {
		b.Use(middleware.Logger())
	}
	b.Use(b.Layout.Middleware(viper.GetString("settings.locale")))
	b.Use(middleware.AutoRespond())
	b.Handle(tele.OnText, onText(b))
	b.Use(middle.ResetInputOnBack)

	// Reachable without registration:
	startHandler.RegisterSetup(b.Group())
	b.Use(middle.Registered)

	// Commands:
	b.Handle("/start", userHandler.EventsList)
	b.Handle("/me", startHandler.Me)
	b.Handle("/stops", userHandler.StopsList)
	b.Handle("/questions", userHandler.QuestionsList)

	// Catalog browsing:
	b.Handle(b.Layout.Callback("user:events:prev_page"), userHandler.EventsList)
	b.Handle(b.Layout.Callback("user:events:event"), userHandler.Event)
	b.Handle(b.Layout.Callback("user:events:join"), userHandler.Event)

	// Mini-games:
	b.Handle(b.Layout.Callback("game:checkpoint:passed"), userHandler.Checkpoint)
	b.Handle(b.Layout.Callback("game:quiz:answer"), userHandler.Quiz)

	// Organizer authoring:
	b.Handle(b.Layout.Callback("organizer:create"), organizerHandler.CreateGame)

	b.Handle(b.Layout.Callback("core:hide"), userHandler.Hide)
}

// onText feeds pending dialogs and answers anything else with a hint.
func onText(b *bot.Bot) tele.HandlerFunc {
	return func(c tele.Context) error {
		state, err := b.Redis.States.Get(c.Sender().ID)
		if err == nil && state != "" {
			return b.Input.Handler()(c)
		}
		return c.Send(b.Layout.Text(c, "unknown_message"))
	}
}
