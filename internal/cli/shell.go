package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"

	flag "github.com/spf13/pflag"
)

// historyFileName lives in the store root.
const historyFileName = ".docstore_history"

// shellCommands are the commands the shell forwards, with the repository
// name inserted as first argument.
var shellCommands = []string{"put", "get", "update", "rm", "ls", "query"}

// lineReader is the input side of the shell. liner backs it on a terminal,
// a scanner everywhere else (pipes, tests).
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

type linerReader struct {
	state       *liner.State
	historyPath string
}

func newLinerReader(historyPath string) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(func(line string) []string {
		var out []string

		for _, name := range slices.Concat(shellCommands, []string{"help", "exit"}) {
			if strings.HasPrefix(name, line) {
				out = append(out, name)
			}
		}

		return out
	})

	if f, err := os.Open(historyPath); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return &linerReader{state: state, historyPath: historyPath}
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	return line, err
}

func (r *linerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

// Close saves history and restores the terminal.
func (r *linerReader) Close() error {
	var saveErr error

	if f, err := os.Create(r.historyPath); err == nil {
		_, saveErr = r.state.WriteHistory(f)
		_ = f.Close()
	}

	return errors.Join(saveErr, r.state.Close())
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return r.scanner.Text(), nil
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

func (a *app) newLineReader() lineReader {
	if f, ok := a.stdin.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		return newLinerReader(filepath.Join(a.cfg.RootAbs, historyFileName))
	}

	if a.stdin == nil {
		return &scanReader{scanner: bufio.NewScanner(strings.NewReader(""))}
	}

	return &scanReader{scanner: bufio.NewScanner(a.stdin)}
}

func (a *app) shellCmd() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell <repo>",
		Short: "Interactive prompt for one repository",
		Long: "Start an interactive prompt bound to <repo>. Commands are the regular ones\n" +
			"without the repository argument, e.g. \"get abc123\" or \"query --where 'n > 2'\".",
		Args: exactArgs(1, "<repo>"),
	}

	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		repoName := args[0]

		// Fail early on a bad name or unusable directory.
		if _, err := a.open(repoName); err != nil {
			return err
		}

		in := a.newLineReader()

		defer func() { _ = in.Close() }()

		return a.shellLoop(ctx, o, in, repoName)
	}

	return c
}

func (a *app) shellLoop(ctx context.Context, o *IO, in lineReader, repoName string) error {
	prompt := repoName + "> "

	for ctx.Err() == nil {
		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		in.AppendHistory(line)

		words, err := splitWords(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		if len(words) == 0 {
			continue
		}

		name := strings.ToLower(words[0])

		switch name {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			printShellHelp(o, a.commands())

			continue
		}

		cmd := findCommand(a.commands(), name)
		if cmd == nil || !slices.Contains(shellCommands, name) {
			o.ErrPrintln("error:", fmt.Errorf("%w: %s (type 'help' for commands)", errUnknownCmd, name))

			continue
		}

		// pflag accepts flags after positionals, so the repo can go first.
		cmdArgs := append([]string{repoName}, words[1:]...)
		_ = cmd.Run(ctx, o, cmdArgs)
	}

	return nil
}

func printShellHelp(o *IO, cmds []*Command) {
	o.Println("Commands (repository argument is implied):")

	for _, name := range shellCommands {
		if c := findCommand(cmds, name); c != nil {
			o.Printf("  %-8s %s\n", name, c.Short)
		}
	}

	o.Println("  help     Show this help")
	o.Println("  exit     Leave the shell")
}
