package main

import (
	"context"
	"log"
	"time"

	"github.com/dmitrijs2005/stockwatch/internal/server"
	"github.com/dmitrijs2005/stockwatch/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	app, err := server.NewApp(initCtx, cfg)
	cancel()

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
