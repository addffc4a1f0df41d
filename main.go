package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tebben/cadastreur/cli"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
