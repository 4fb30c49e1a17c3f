package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "docstore" in help.
	// Includes the command name and arguments/flags.
	// Examples: "get <repo> <id>", "ls <repo>"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Args bounds the positional arguments. Checked before Exec runs, so
	// Exec can index args without length checks.
	Args Args

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-34s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "docstore <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: docstore", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command. Returns exit code.
// Handles error printing internally for consistent output ordering.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	args = c.Flags.Args()

	if err := c.Args.check(args); err != nil {
		o.ErrPrintln("error:", fmt.Errorf("%w (usage: docstore %s)", err, c.Usage))

		return 1
	}

	if err := c.Exec(ctx, o, args); err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return 0
}

// Args is a positional argument count range. The zero value accepts none.
type Args struct {
	Min int
	// Max of -1 means no upper bound.
	Max int
	// Want names the expected arguments in errors, e.g. "<repo> <id>".
	Want string
}

func exactArgs(n int, want string) Args { return Args{Min: n, Max: n, Want: want} }

func minArgs(n int, want string) Args { return Args{Min: n, Max: -1, Want: want} }

func (a Args) check(args []string) error {
	if len(args) < a.Min || (a.Max >= 0 && len(args) > a.Max) {
		want := a.Want
		if want == "" {
			want = "no arguments"
		}

		return fmt.Errorf("%w: want %s, got %d", errBadArgs, want, len(args))
	}

	return nil
}
