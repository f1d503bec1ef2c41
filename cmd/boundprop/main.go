// Command boundprop runs the bound and offset-equality propagator over
// problem files and prints the facts it derives.
//
// Usage:
//
//	boundprop run [--tree] [--table] [--bounds] [--format text|yaml|cbor] [--workers N] files...
//	boundprop version [--check V]
package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := newRootCmd(log).Execute(); err != nil {
		log.Error().Err(err).Msg("boundprop failed")
		os.Exit(1)
	}
}
