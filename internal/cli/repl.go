// Package cli provides the interactive shell for the inline-table tool
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/fjkz/inline-table/internal/config"
	"github.com/fjkz/inline-table/internal/logger"
	"github.com/fjkz/inline-table/pkg/expr"
	"github.com/fjkz/inline-table/pkg/table"
)

// REPL implements an interactive query loop over one compiled table.
type REPL struct {
	config *config.Config
	log    *logger.Logger
	table  *table.Table
	env    *expr.Env
}

// NewREPL creates a new REPL instance. The environment resolves the
// values on the right-hand side of query conditions.
func NewREPL(cfg *config.Config, log *logger.Logger, t *table.Table, env *expr.Env) *REPL {
	return &REPL{
		config: cfg,
		log:    log,
		table:  t,
		env:    env,
	}
}

// Run starts the REPL loop
func (r *REPL) Run() error {
	rlConfig := &readline.Config{
		Prompt:          r.config.REPL.Prompt,
		HistoryFile:     r.config.REPL.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    newCompleter(),
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("inline-table shell: %d columns, %d rows. Type 'help' for commands.\n",
		len(r.table.Labels()), r.table.Len())

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r.processCommand(line) == commandExit {
			return nil
		}
	}
}

type commandResult int

const (
	commandOK commandResult = iota
	commandExit
	commandError
)

func (r *REPL) processCommand(input string) commandResult {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	r.log.Debugw("command", "input", input)

	switch cmd {
	case "exit", "quit", "q":
		return commandExit

	case "help", "?":
		printHelp()
		return commandOK

	case "labels":
		fmt.Println(strings.Join(r.table.Labels(), "\t"))
		return commandOK

	case "types":
		var dirs []string
		for _, typ := range r.table.Types() {
			dirs = append(dirs, typ.String())
		}
		fmt.Println(strings.Join(dirs, "\t"))
		return commandOK

	case "show":
		fmt.Println(r.table.String())
		return commandOK

	case "rows":
		it := r.table.Iter()
		for {
			row, ok := it.Next()
			if !ok {
				break
			}
			fmt.Println(row)
		}
		return commandOK

	case "select":
		cond, err := r.parseCondition(args)
		if err != nil {
			fmt.Println(err)
			return commandError
		}
		row, err := r.table.Select(cond)
		if err != nil {
			fmt.Println(err)
			return commandError
		}
		fmt.Println(row)
		return commandOK

	case "all":
		cond, err := r.parseCondition(args)
		if err != nil {
			fmt.Println(err)
			return commandError
		}
		rows, err := r.table.SelectAll(cond)
		if err != nil {
			fmt.Println(err)
			return commandError
		}
		for _, row := range rows {
			fmt.Println(row)
		}
		fmt.Printf("(%d rows)\n", len(rows))
		return commandOK

	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		fmt.Println("Type 'help' for available commands")
		return commandError
	}
}

// parseCondition turns label=expression arguments into a query condition.
// The expressions are evaluated in the same environment as the table's
// cells.
func (r *REPL) parseCondition(args []string) (map[string]any, error) {
	cond := make(map[string]any, len(args))
	for _, arg := range args {
		label, src, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected label=value, got %q", arg)
		}
		v, err := expr.Eval(src, r.env)
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", label, err)
		}
		cond[label] = v
	}
	return cond, nil
}

func printHelp() {
	fmt.Println(`Commands:
  select k=v [k=v ...]   Return the first matching row
  all [k=v ...]          Return all matching rows
  rows                   Print every row as stored
  labels                 Print the column labels
  types                  Print the column directives
  show                   Print the table as TSV
  help                   Show this help
  exit, quit             Leave the shell

Condition values are literal expressions, e.g. select state='stop'`)
}

// newCompleter creates an auto-completer for the REPL
func newCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("select"),
		readline.PcItem("all"),
		readline.PcItem("rows"),
		readline.PcItem("labels"),
		readline.PcItem("types"),
		readline.PcItem("show"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}
