package main

import (
	"context"
	"log"

	"trainhub/internal/client/cli"
	"trainhub/internal/client/config"
	"trainhub/internal/logging"
)

func main() {

	ctx := context.Background()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
