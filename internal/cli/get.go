package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

func (a *app) getCmd() *Command {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.Bool("compact", false, "Print on one line")

	c := &Command{
		Flags: fs,
		Usage: "get <repo> <id>",
		Short: "Print a document as JSON",
		Long:  "Print a document as JSON. The ID appears as \"__id\".",
		Args:  exactArgs(2, "<repo> <id>"),
	}

	c.Exec = func(_ context.Context, o *IO, args []string) error {
		repo, err := a.open(args[0])
		if err != nil {
			return err
		}

		doc, err := repo.FindByID(args[1])
		if err != nil {
			return err
		}

		compact, _ := fs.GetBool("compact")

		out, err := renderDocument(doc, !compact)
		if err != nil {
			return err
		}

		o.Println(out)

		return nil
	}

	return c
}
