package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/docstore/internal/cli"
)

func Test_Ls_Prints_Sorted_IDs_When_Documents_Exist(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	for _, id := range []string{"zeta", "alpha", "mid"} {
		c.MustRun("put", "notes", "--id", id, "n=1")
	}

	c.WriteDoc("notes", "empty", "null")

	stdout := c.MustRun("ls", "notes")

	if got, want := stdout, "alpha\nmid\nzeta"; got != want {
		t.Fatalf("stdout=%q, want=%q", got, want)
	}
}

func Test_Ls_Prints_Nothing_When_Repository_Is_Empty(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	if got := c.MustRun("ls", "notes"); got != "" {
		t.Fatalf("stdout=%q, want empty", got)
	}
}

func Test_Ls_Fails_When_Strict_And_Document_Is_Corrupt(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDoc("notes", "bad", "{")
	writeFile(t, c.Dir+"/.docstore.json", `{"strict_decode": true}`)

	stderr := c.MustFail("ls", "notes")
	cli.AssertContains(t, stderr, "corrupt document")
	cli.AssertContains(t, stderr, "doc_id=bad")

	if !strings.Contains(stderr, "op=find_all") {
		t.Fatalf("stderr=%q, want op=find_all", stderr)
	}
}
