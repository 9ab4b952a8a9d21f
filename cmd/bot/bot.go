package bot

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/nlypage/intele"
	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"
	"gorm.io/gorm"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/config"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/controller/telegram/notifier"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/database/postgres"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/database/redis"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/service"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

type Bot struct {
	*tele.Bot
	Layout *layout.Layout
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *types.Logger
	Input  *intele.InputManager
}

func New(config *config.Config) (*Bot, error) {
	lt, err := layout.New("telegram.yml")
	if err != nil {
		return nil, err
	}

	settings := lt.Settings()
	botLogger, err := logger.Named("bot")
	if err != nil {
		return nil, err
	}
	settings.OnError = func(err error, ctx tele.Context) {
		if ctx.Callback() == nil {
			botLogger.Errorf("(user: %d) | Error: %v", ctx.Sender().ID, err)
		} else {
			botLogger.Errorf("(user: %d) | unique: %s | Error: %v", ctx.Sender().ID, ctx.Callback().Unique, err)
		}
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		return nil, err
	}

	if cmds := lt.Commands(); cmds != nil {
		if err = b.SetCommands(cmds); err != nil {
			return nil, err
		}
	}

	bot := &Bot{
		Bot:    b,
		Layout: lt,
		DB:     config.Database,
		Input: intele.NewInputManager(intele.InputOptions{
			Storage: config.Redis.States,
		}),
		Logger: botLogger,
		Redis:  config.Redis,
	}

	return bot, nil
}

// Start runs the notification scheduler and the long poller. On SIGINT or
// SIGTERM the poller stops and the scheduler drains its in-flight pass.
func (b *Bot) Start() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifyLogger, err := logger.Named("notify")
	if err != nil {
		logger.Log.Panicf("Failed to create notify logger: %v", err)
	}

	notifyService := service.NewNotifyService(
		postgres.NewEventGameStorage(b.DB),
		postgres.NewEnrollmentStorage(b.DB),
		postgres.NewUserStorage(b.DB),
		notifier.New(b.Bot, b.Layout, viper.GetString("settings.locale")),
		viper.GetDuration("settings.scheduler.cadence"),
		viper.GetDuration("settings.scheduler.pre-start-lead"),
		notifyLogger,
	)
	notifyService.Start(ctx)

	go func() {
		<-ctx.Done()
		logger.Log.Info("Bot stopping")
		b.Bot.Stop()
	}()

	logger.Log.Info("Bot starting")
	b.Bot.Start()

	notifyService.Wait()
}
