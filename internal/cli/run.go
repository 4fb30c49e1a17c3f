// Package cli implements the docstore command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/calvinalkan/docstore/internal/config"
	"github.com/calvinalkan/docstore/pkg/docstore"

	flag "github.com/spf13/pflag"
)

var (
	errBadArgs      = errors.New("wrong number of arguments")
	errUnknownCmd   = errors.New("unknown command")
	errInvalidField = errors.New("invalid field assignment")
)

// app carries what every command needs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	stdin  io.Reader
}

func (a *app) open(name string) (*docstore.Repository, error) {
	return a.cfg.Open(name, a.logger)
}

// commands returns fresh command values. FlagSets keep state between
// parses, so the shell builds a new set per line.
func (a *app) commands() []*Command {
	return []*Command{
		a.initCmd(),
		a.putCmd(),
		a.getCmd(),
		a.updateCmd(),
		a.rmCmd(),
		a.lsCmd(),
		a.queryCmd(),
		a.shellCmd(),
		a.printConfigCmd(),
	}
}

func findCommand(cmds []*Command, name string) *Command {
	for _, c := range cmds {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// Run is the main entry point. Returns exit code.
//
// args includes the program name. A value received on sigCh cancels the
// context handed to commands; nil disables signal handling.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("docstore", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(io.Discard)

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	root := globals.String("root", "", "Store root `dir` (overrides config)")
	formatName := globals.String("format", "", "Document `format`: json, jsonc, yaml, md (overrides config)")
	verbose := globals.BoolP("verbose", "v", false, "Log debug output to stderr")
	help := globals.BoolP("help", "h", false, "Show help")

	var rest []string
	if len(args) > 1 {
		if err := globals.Parse(args[1:]); err != nil {
			fprintln(errOut, "error:", err)
			printUsage(errOut, globals, nil)

			return 1
		}

		rest = globals.Args()
	}

	a := &app{stdin: stdin}

	if *help || len(rest) == 0 {
		printUsage(out, globals, a.commands())

		return 0
	}

	cmd := findCommand(a.commands(), rest[0])
	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCmd, rest[0]))
		printUsage(errOut, globals, a.commands())

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		RootOverride:    *root,
		FormatOverride:  *formatName,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case sig := <-sigCh:
				a.logger.Debug("received signal, cancelling", "signal", sig)
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	o := NewIO(out, errOut)
	if code := cmd.Run(ctx, o, rest[1:]); code != 0 {
		return code
	}

	return o.Finish()
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, cmds []*Command) {
	fprintln(w, `docstore - file-per-document store

Usage: docstore [flags] <command> [args]

Global flags:`)
	fprintln(w, globals.FlagUsages())

	if len(cmds) == 0 {
		return
	}

	fprintln(w, "Commands:")

	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}

	fprintln(w)
	fprintln(w, `Run "docstore <command> --help" for command flags.`)
}
