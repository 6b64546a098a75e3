package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/setmeup/setmeup/cmd/setmeup/commands"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	setupLogging()
	go watchSignals(os.Exit)

	if err := commands.Execute(Version, Commit, BuildDate); err != nil {
		log.Error().Err(err).Msg("Command execution failed")
		os.Exit(1)
	}
}

// watchSignals ends the process on SIGINT/SIGTERM. The operator
// conversation spends most of its life blocked in plain stdin reads, which
// nothing can interrupt from the inside, so Ctrl-C must terminate the
// process directly rather than wait for the current prompt to return.
func watchSignals(exit func(code int)) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.Warn().Str("signal", sig.String()).Msg("interrupted, exiting")
	exit(130)
}

// setupLogging configures zerolog for structured logging. The operator
// conversation owns stdout, so logs go to stderr.
func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
