package main

import (
	"log"

	"github.com/joho/godotenv"

	corebootstrap "campusbot/core/bootstrap"
	corecmd "campusbot/core/cmd"
	coreconfig "campusbot/core/config"
	"campusbot/internal/bot"
)

type configCarrier struct {
	cfg *coreconfig.Config
}

func (c *configCarrier) CoreConfig() *coreconfig.Config { return c.cfg }

func main() {
	// Local development convenience; production supplies real env vars.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return &configCarrier{cfg: cfg}, nil
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := carrier.CoreConfig()
			res, err := corebootstrap.Run(corebootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			return bot.NewApp(cfg, res.DB)
		},
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
