// inline-table - query ASCII tables embedded in text files
// Main entry point for the command line tool

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fjkz/inline-table/internal/cli"
	"github.com/fjkz/inline-table/internal/config"
	"github.com/fjkz/inline-table/internal/logger"
	"github.com/fjkz/inline-table/pkg/expr"
	"github.com/fjkz/inline-table/pkg/table"
)

var (
	version   = "0.1.0"
	buildDate = "dev"

	cfgFile  string
	varFlags []string
	varsFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inline-table",
		Short: "inline-table - query ASCII tables embedded in text",
		Long: `inline-table compiles a reStructuredText or Markdown table from a
text file and answers relational queries against it.

Query a table file:
  inline-table query table.txt --where state="'stop'"

Open an interactive shell:
  inline-table repl table.txt`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringArrayVar(&varFlags, "var", nil, "variable binding name=expression (repeatable)")
	rootCmd.PersistentFlags().StringVar(&varsFile, "vars-file", "", "YAML file with variable bindings")

	queryCmd := &cobra.Command{
		Use:   "query <file>",
		Short: "Compile a table file and return the first matching row",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}
	queryCmd.Flags().StringArray("where", nil, "condition label=expression (repeatable)")
	queryCmd.Flags().Bool("all", false, "return every matching row")
	rootCmd.AddCommand(queryCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "show <file>",
		Short: "Compile a table file and dump it as TSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "repl <file>",
		Short: "Open an interactive query shell on a table file",
		Args:  cobra.ExactArgs(1),
		RunE:  runREPL,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("inline-table %s (built %s)\n", version, buildDate)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadVars collects variable bindings from the YAML vars file and the
// --var flags, flags winning on conflict.
func loadVars() (map[string]any, error) {
	vars := make(map[string]any)

	if varsFile != "" {
		data, err := os.ReadFile(varsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read vars file: %w", err)
		}
		if err := yaml.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("failed to parse vars file %s: %w", varsFile, err)
		}
	}

	for _, flag := range varFlags {
		name, src, ok := strings.Cut(flag, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=expression, got %q", flag)
		}
		env, err := expr.NewEnv(vars)
		if err != nil {
			return nil, err
		}
		v, err := expr.Eval(src, env)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars[name] = v
	}
	return vars, nil
}

// compileFile loads the variable bindings and compiles the table file.
func compileFile(path string) (*table.Table, map[string]any, error) {
	vars, err := loadVars()
	if err != nil {
		return nil, nil, err
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table file: %w", err)
	}
	t, err := table.Compile(string(text), vars)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, vars, nil
}

func newLogger() (*logger.Logger, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		return nil, nil, err
	}
	return log, cfg, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	log, _, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	t, vars, err := compileFile(args[0])
	if err != nil {
		return err
	}
	log.Debugw("table compiled", "file", args[0], "columns", len(t.Labels()), "rows", t.Len())

	env, err := expr.NewEnv(vars)
	if err != nil {
		return err
	}
	where, _ := cmd.Flags().GetStringArray("where")
	cond := make(map[string]any, len(where))
	for _, w := range where {
		label, src, ok := strings.Cut(w, "=")
		if !ok {
			return fmt.Errorf("expected label=expression, got %q", w)
		}
		v, err := expr.Eval(src, env)
		if err != nil {
			return fmt.Errorf("condition %q: %w", label, err)
		}
		cond[label] = v
	}

	if all, _ := cmd.Flags().GetBool("all"); all {
		rows, err := t.SelectAll(cond)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Println(row)
		}
		return nil
	}

	row, err := t.Select(cond)
	if err != nil {
		return err
	}
	fmt.Println(row)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	t, _, err := compileFile(args[0])
	if err != nil {
		return err
	}
	fmt.Println(t)
	return nil
}

func runREPL(cmd *cobra.Command, args []string) error {
	log, cfg, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	t, vars, err := compileFile(args[0])
	if err != nil {
		return err
	}
	env, err := expr.NewEnv(vars)
	if err != nil {
		return err
	}
	return cli.NewREPL(cfg, log, t, env).Run()
}
