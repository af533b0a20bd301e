package eval

import (
	"log"
	"os"

	"github.com/funvibe/weave/internal/value"
)

// logger is the package-level fault sink. spec §7's propagation policy:
// every operation that fails returns Unit and emits a log record
// describing the failure; the caller observes the output but not the
// category. Grounded on the teacher's own ambient choice (funxy uses no
// third-party logging library anywhere in its own source — only the
// standard "log" package, see cmd/lsp/*.go).
var logger = log.New(os.Stderr, "weave: ", log.LstdFlags)

// SetLogger overrides the package-level fault logger, e.g. to silence
// it in tests or redirect it for an embedder.
func SetLogger(l *log.Logger) { logger = l }

// Logger returns the package-level logger currently in effect, for
// callers (e.g. internal/prelude's print/debug/trace builtins) that
// want to log through the same sink faults use.
func Logger() *log.Logger { return logger }

// fault logs a structured failure and returns Unit, the value every
// faulted core operation yields (spec §7: "failure is never a value,
// only an absence").
func fault(traceID string, tier value.AccessTier, kind error, detail string) value.Value {
	logger.Printf("trace=%s tier=%s kind=%v detail=%s", traceID, tier, kind, detail)
	return value.Unit{}
}
