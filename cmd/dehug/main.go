package main

import (
	"context"
	"log"
	"os"

	"github.com/Timi16/dehug-go/internal/client/cli"
	"github.com/Timi16/dehug-go/internal/client/config"
	"github.com/Timi16/dehug-go/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewJSON(os.Stderr)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
