package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/susu3304/creditbot/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Fatal("creditbot failed")
	}
}
