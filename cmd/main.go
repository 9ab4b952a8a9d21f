package main

import (
	"log"

	_ "time/tzdata"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/cmd/bot"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/config"
	setupBot "github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/controller/telegram/setup"
)

func main() {
	cfg := config.Get()
	b, err := bot.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	setupBot.Setup(b)

	b.Start()
}
