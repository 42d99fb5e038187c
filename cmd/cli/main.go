package main

import (
	"context"
	"log"
	"os"

	"github.com/cachao/media/internal/buildinfo"
	"github.com/cachao/media/internal/client/cli"
	"github.com/cachao/media/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
