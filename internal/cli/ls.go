package cli

import (
	"context"
	"slices"

	flag "github.com/spf13/pflag"
)

func (a *app) lsCmd() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Usage: "ls <repo>",
		Short: "List document IDs",
		Long:  "List document IDs, sorted. Files that do not decode to a document are skipped.",
		Args:  exactArgs(1, "<repo>"),
	}

	c.Exec = func(_ context.Context, o *IO, args []string) error {
		repo, err := a.open(args[0])
		if err != nil {
			return err
		}

		docs, err := repo.FindAll()
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(docs))
		for _, d := range docs {
			ids = append(ids, d.ID())
		}

		slices.Sort(ids)

		for _, id := range ids {
			o.Println(id)
		}

		return nil
	}

	return c
}
