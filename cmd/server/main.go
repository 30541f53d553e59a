package main

import (
	"context"
	"log"

	"trainhub/internal/logging"
	"trainhub/internal/server"
	"trainhub/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
