package prelude

import (
	"os"

	"github.com/funvibe/weave/internal/function"
	"github.com/funvibe/weave/internal/value"
	"github.com/mattn/go-isatty"
)

// termBuiltins wires go-isatty, which cmd/weave's REPL also uses (on
// stdin) to decide whether to draw a prompt: a weave program can call
// `is-terminal` (its input is ignored) to ask whether its own stdout is
// a terminal, e.g. to suppress color/progress output when piped.
func termBuiltins() []binding {
	return []binding{
		{"is-terminal", function.NewPrim("is-terminal", value.TierFree, evalArrow, primIsTerminal)},
	}
}

func primIsTerminal(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	fd := os.Stdout.Fd()
	return value.Bit(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}
