package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	setupEnvironment()

	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
