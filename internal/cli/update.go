package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

func (a *app) updateCmd() *Command {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.StringArray("unset", nil, "Remove `field` (repeatable)")

	c := &Command{
		Flags: fs,
		Usage: "update <repo> <id> [key=value...]",
		Short: "Change fields of an existing document",
		Long:  "Merge key=value fields into an existing document. Fails if the document does not exist.",
		Args:  minArgs(2, "<repo> <id> [key=value...]"),
	}

	c.Exec = func(_ context.Context, o *IO, args []string) error {
		assigned, err := parseAssignments(args[2:])
		if err != nil {
			return err
		}

		repo, err := a.open(args[0])
		if err != nil {
			return err
		}

		doc, err := repo.FindByID(args[1])
		if err != nil {
			return err
		}

		unset, _ := fs.GetStringArray("unset")
		for _, name := range unset {
			if !doc.Fields().Delete(name) {
				o.Warn("field "+name+" not present", "nothing to unset")
			}
		}

		doc.Fields().Merge(assigned)

		id, err := repo.Update(doc)
		if err != nil {
			return err
		}

		o.Println(id)

		return nil
	}

	return c
}
