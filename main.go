package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/Speshl/gorrc_pilot/internal/app"
	"github.com/Speshl/gorrc_pilot/internal/config"
)

func main() {
	cfg := config.GetConfig()

	app := app.NewApp(cfg)
	err := app.Start()
	if err != nil {
		log.Printf("pilot shutdown with error: %s", err.Error())
	} else {
		log.Println("pilot shutdown successfully")
	}
}
