// Command server runs the journal HTTP API until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/gophjournal/internal/server"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
)

func main() {
	ctx := context.Background()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("server init: %v", err)
	}
	app.Run(ctx)
}
