package boundprop

import (
	"os"

	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/rs/zerolog"
)

// TraceEnv enables trace logging in DefaultConfig when set to "1".
const TraceEnv = "BOUNDPROP_TRACE"

// Config holds configuration for a Propagator.
type Config struct {
	// Logger receives trace events tagged "cheap_eq", "cheap_eqs",
	// "try_add_bound", "bound_row" and "overflow". Defaults to a disabled
	// logger.
	Logger zerolog.Logger

	// OnBound is called each time a bound is inserted or improved.
	OnBound func(lp.ImpliedBound)

	// CheckInvariants verifies the equality tree after every mutation and
	// panics on a malformed tree. Meant for debug builds and tests.
	CheckInvariants bool

	// TableCrossRow lets CheapEqTable derive x = x2 from two distinct rows
	// sharing the key (y, k). When false a key collision only replaces the
	// stale entry.
	TableCrossRow bool

	// MaxTreeVertices stops a tree exploration before a row would take it
	// past this many vertices (0 = unlimited). The root row always gets its
	// two vertices, so the smallest effective cap is 2; 1 acts like 2.
	MaxTreeVertices int
}

// DefaultConfig returns the default configuration. Trace logging to stderr
// is switched on when the BOUNDPROP_TRACE environment variable is "1".
func DefaultConfig() *Config {
	cfg := &Config{
		Logger:          zerolog.Nop(),
		CheckInvariants: false,
		TableCrossRow:   true,
		MaxTreeVertices: 0, // Unlimited
	}
	if os.Getenv(TraceEnv) == "1" {
		cfg.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.TraceLevel).
			With().Timestamp().Logger()
	}
	return cfg
}
