package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/watershed-hr/comp-engine/pkg/agent"
	"github.com/watershed-hr/comp-engine/pkg/config"
	"github.com/watershed-hr/comp-engine/pkg/conversation"
	"github.com/watershed-hr/comp-engine/pkg/llm"
	"github.com/watershed-hr/comp-engine/pkg/store"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	configPath  string
	interactive bool
	debug       bool
)

func main() {
	root := &cobra.Command{
		Use:     "comp [question]",
		Short:   "Conversational compensation analytics",
		Long:    "Ask compensation questions in plain English against a local SQLite dataset.",
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		RunE:    run,
		// Errors are printed once, by cobra.
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	root.Flags().BoolVarP(&interactive, "interactive", "i", false, "start an interactive session")
	root.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(debug)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load(configPath, Version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing or unreadable database is the only unrecoverable startup
	// error; everything else degrades.
	st, err := store.Open(ctx, &cfg.Database, &cfg.Query, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := llm.NewFromConfig(&cfg.LLM, logger)
	if err != nil {
		logger.Warn("LLM provider unavailable, using deterministic fallbacks", zap.Error(err))
		client = nil
	}

	a, err := agent.New(cfg, st, client, logger)
	if err != nil {
		return err
	}

	if !interactive && len(args) > 0 {
		return askOnce(ctx, a, strings.Join(args, " "))
	}
	if !interactive {
		return cmd.Help()
	}
	return repl(ctx, a)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

func askOnce(ctx context.Context, a *agent.Agent, question string) error {
	out, err := a.Ask(ctx, question, a.StartSession())
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// repl runs the interactive loop. Besides questions it understands the
// commands export, history, and exit (also quit / q).
func repl(ctx context.Context, a *agent.Agent) error {
	session := a.StartSession()
	fmt.Println("Compensation assistant. Ask a question, or type 'exit' to leave.")
	fmt.Println("Commands: export (save last result), history, exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "exit", "quit", "q":
			fmt.Println("Goodbye.")
			return nil
		case "export":
			printExports(a)
			continue
		case "history":
			printHistory(session)
			continue
		}

		out, err := a.Ask(ctx, line, session)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nInterrupted.")
				return nil
			}
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println(out)
	}
}

func printExports(a *agent.Agent) {
	exports, err := a.ExportLast()
	if err != nil {
		fmt.Println("Nothing to export: ask a question first.")
		return
	}
	formats := make([]string, 0, len(exports))
	for f := range exports {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Println("Exported:")
	for _, f := range formats {
		fmt.Printf("  %-7s %s\n", f, exports[f])
	}
}

func printHistory(session *conversation.Session) {
	turns := session.Turns()
	if len(turns) == 0 {
		fmt.Println("No questions asked yet.")
		return
	}
	for i, turn := range turns {
		fmt.Printf("%d. [%s] %s\n", i+1, turn.Timestamp.Format("15:04:05"), turn.Question)
	}
}
