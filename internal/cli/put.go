package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/calvinalkan/docstore/pkg/docstore"
	"github.com/calvinalkan/docstore/pkg/docstore/format"

	flag "github.com/spf13/pflag"
)

var errStdinNotObject = errors.New("stdin must hold a JSON object")

func (a *app) putCmd() *Command {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.String("id", "", "Document ID (default: generated)")
	fs.Bool("stdin", false, "Read a JSON object from stdin; key=value arguments override its fields")

	c := &Command{
		Flags: fs,
		Usage: "put <repo> [--id id] [key=value...]",
		Short: "Store a document, print its ID",
		Long: "Store a document, replacing any document with the same ID.\n" +
			"Values are parsed as JSON when valid (42, true, [1,2], {\"a\":1}), else taken as strings.",
		Args: minArgs(1, "<repo> [key=value...]"),
	}

	c.Exec = func(_ context.Context, o *IO, args []string) error {
		fields := docstore.NewFields()

		if fromStdin, _ := fs.GetBool("stdin"); fromStdin {
			data, err := io.ReadAll(a.stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}

			decoded, err := format.NewJSON().Decode(data)
			if err != nil {
				return fmt.Errorf("%w: %w", errStdinNotObject, err)
			}

			if decoded != nil {
				fields = decoded
			}
		}

		assigned, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}

		fields.Merge(assigned)

		repo, err := a.open(args[0])
		if err != nil {
			return err
		}

		doc := docstore.NewDocument(fields)

		if id, _ := fs.GetString("id"); id != "" {
			doc.SetID(id)
		}

		id, err := repo.Store(doc)
		if err != nil {
			return err
		}

		o.Println(id)

		return nil
	}

	return c
}
