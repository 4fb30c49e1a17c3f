package cli

import (
	"context"
	"errors"
	"strings"

	flag "github.com/spf13/pflag"
)

const andSeparator = "&&"

var errNegativePaging = errors.New("--limit and --offset must be non-negative")

func (a *app) queryCmd() *Command {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.StringArray("where", nil, "Condition \"field op value\"; repeat or join with && to AND")
	fs.StringArray("or", nil, "Alternative group \"field op value [&& ...]\" ORed with the others")
	fs.StringArray("order", nil, "Sort key \"field [asc|desc]\" (repeatable)")
	fs.Int("limit", 0, "Maximum documents to print (0 = all)")
	fs.Int("offset", 0, "Skip first N matches")
	fs.Bool("count", false, "Print only the number of matches")

	c := &Command{
		Flags: fs,
		Usage: "query <repo> [flags]",
		Short: "Find documents by field conditions",
		Long: "Print matching documents as JSON lines.\n\n" +
			"Operators: == != > >= < <= in contains. Values are JSON literals or bare strings.\n" +
			"Dotted fields reach into nested objects; __id is the document ID.\n\n" +
			"Example:\n" +
			"  docstore query notes --where 'status == open && priority >= 2' --or 'pinned == true' --order 'priority desc'",
		Args: exactArgs(1, "<repo>"),
	}

	c.Exec = func(_ context.Context, o *IO, args []string) error {
		limit, _ := fs.GetInt("limit")
		offset, _ := fs.GetInt("offset")

		if limit < 0 || offset < 0 {
			return errNegativePaging
		}

		repo, err := a.open(args[0])
		if err != nil {
			return err
		}

		q, err := repo.Query()
		if err != nil {
			return err
		}

		where, _ := fs.GetStringArray("where")
		for _, expr := range where {
			for _, part := range strings.Split(expr, andSeparator) {
				field, op, value, err := splitCondition(part)
				if err != nil {
					return err
				}

				q.Where(field, op, value)
			}
		}

		ors, _ := fs.GetStringArray("or")
		for _, expr := range ors {
			for i, part := range strings.Split(expr, andSeparator) {
				field, op, value, err := splitCondition(part)
				if err != nil {
					return err
				}

				if i == 0 {
					q.OrWhere(field, op, value)
				} else {
					q.AndWhere(field, op, value)
				}
			}
		}

		order, _ := fs.GetStringArray("order")
		q.OrderBy(order...).Limit(limit, offset)

		res, err := q.Execute()
		if err != nil {
			return err
		}

		if count, _ := fs.GetBool("count"); count {
			o.Println(res.Total)

			return nil
		}

		for _, doc := range res.Documents {
			line, err := renderDocument(doc, false)
			if err != nil {
				return err
			}

			o.Println(line)
		}

		return nil
	}

	return c
}
