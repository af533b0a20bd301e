// Command weave is the CLI/REPL front end over pkg/weave. Grounded on
// the teacher's cmd/funxy/main.go: a bare os.Args subcommand dispatch
// (no flag package, matching funxy's own "-run"/"-compile"/"test"
// argv[1] switch) plus a weave.yaml-driven runner config (SPEC_FULL.md
// §4.7).
package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/weave/internal/config"
	"github.com/funvibe/weave/internal/ext"
	"github.com/funvibe/weave/pkg/weave"
)

func main() {
	if len(os.Args) < 2 {
		runRepl()
		return
	}
	switch os.Args[1] {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: %s run <file>\n", os.Args[0])
			os.Exit(1)
		}
		runFile(os.Args[2])
	case "repl":
		runRepl()
	case "version", "-version", "--version":
		fmt.Println(config.Version)
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [run <file>|repl|version]\n", os.Args[0])
		os.Exit(1)
	}
}

func runFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		os.Exit(1)
	}
	v, err := weave.Parse(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: parse error: %v\n", path, err)
		os.Exit(1)
	}
	ctx := weave.MakeCtx()
	result := weave.EvalMut(&ctx, v)
	fmt.Println(weave.Generate(result))
}

// runRepl reads one weave expression per line and prints its evaluated
// result. Prompting is suppressed when stdin is not a TTY (go-isatty),
// mirroring the teacher's own term-builtin TTY check in
// internal/evaluator/builtins_term.go, applied here to the REPL itself
// rather than to a prelude builtin.
func runRepl() {
	cfg, err := ext.LoadConfig("weave.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	verifyExtensions(cfg)
	prompt := cfg.Runner.Prompt
	if prompt == "" {
		prompt = "weave> "
	}
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	history := openHistory(cfg.Runner.HistoryPath)
	if history != nil {
		defer history.Close()
	}

	ctx := weave.MakeCtx()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print(prompt)
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		recordHistory(history, line)
		v, err := weave.Parse(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		result := weave.EvalMut(&ctx, v)
		fmt.Println(weave.Generate(result))
	}
}

// openHistory opens (creating if needed) the sqlite-backed REPL history
// store (SPEC_FULL.md §5's modernc.org/sqlite wiring: unused by the
// teacher itself, repurposed here for the one persistence surface the
// core's "no persistence" Non-goal does not reach — the CLI, not the
// engine). A nil return (no path configured, or open failure) disables
// history without failing the REPL.
func openHistory(path string) *sql.DB {
	if path == "" {
		return nil
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history disabled: %v\n", err)
		return nil
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submitted_at TEXT NOT NULL,
		source TEXT NOT NULL
	)`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history disabled: %v\n", err)
		_ = db.Close()
		return nil
	}
	return db
}

func recordHistory(db *sql.DB, line string) {
	if db == nil {
		return
	}
	_, _ = db.Exec(`INSERT INTO history (submitted_at, source) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), line)
}

// verifyExtensions runs internal/ext's golang.org/x/tools-based check
// against every weave.yaml extension entry at startup, so a misconfigured
// binding surfaces as one readable line here instead of a panic the
// first time a program actually invokes it.
func verifyExtensions(cfg ext.Config) {
	for _, dep := range cfg.Extensions {
		if err := ext.VerifyVTable(dep.Pkg, dep.VTableType); err != nil {
			fmt.Fprintf(os.Stderr, "weave.yaml: extension %q: %v\n", dep.Tag, err)
		}
	}
}
