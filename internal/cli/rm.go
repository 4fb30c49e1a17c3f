package cli

import (
	"context"
	"errors"
	"os"

	flag "github.com/spf13/pflag"
)

func (a *app) rmCmd() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <repo> <id>...",
		Short: "Delete documents",
		Long:  "Delete documents. Missing IDs are reported as warnings; the rest are still removed.",
		Args:  minArgs(2, "<repo> <id>..."),
	}

	c.Exec = func(_ context.Context, o *IO, args []string) error {
		repo, err := a.open(args[0])
		if err != nil {
			return err
		}

		for _, id := range args[1:] {
			err := repo.Delete(id)
			if errors.Is(err, os.ErrNotExist) {
				o.Warn(id+" not found", "check the ID with \"docstore ls "+args[0]+"\"")

				continue
			}

			if err != nil {
				return err
			}

			o.Println(id)
		}

		return nil
	}

	return c
}
