package main

import (
	"context"
	"log"

	"github.com/Timi16/dehug-go/internal/tracker"
	"github.com/Timi16/dehug-go/internal/tracker/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := tracker.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
