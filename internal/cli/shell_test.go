package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/docstore/internal/cli"
)

func Test_Shell_Runs_Commands_Against_Repository_When_Reading_Lines(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	input := strings.Join([]string{
		"# comment",
		"put --id a x=1",
		"",
		`put --id b 'title=hello world'`,
		"update a x=2",
		"get --compact a",
		"ls",
		"rm b",
		"exit",
		"put --id never x=1",
	}, "\n")

	stdout, stderr, code := c.RunWithInput(input, "shell", "notes")
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr)
	}

	want := "a\nb\na\n" + `{"__id":"a","x":2}` + "\na\nb\nb\n"
	if stdout != want {
		t.Fatalf("stdout=%q\nwant=%q", stdout, want)
	}

	if got, want := c.ReadDoc("notes", "a"), `{"x":2}`; got != want {
		t.Fatalf("content=%q, want=%q", got, want)
	}

	if got := c.MustRun("ls", "notes"); got != "a" {
		t.Fatalf("ls=%q, want %q", got, "a")
	}
}

func Test_Shell_Keeps_Going_When_A_Line_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	input := "get missing\nbogus\nshell\nput 'unterminated\nput --id ok v=1\n"

	stdout, stderr, code := c.RunWithInput(input, "shell", "notes")
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr)
	}

	if got, want := strings.TrimSpace(stdout), "ok"; got != want {
		t.Fatalf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "document not found")
	cli.AssertContains(t, stderr, "unknown command: bogus")
	cli.AssertContains(t, stderr, "unknown command: shell")
	cli.AssertContains(t, stderr, "closing quote")
}

func Test_Shell_Prints_Help_When_Asked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRun("shell", "notes")
	if stdout != "" {
		t.Fatalf("stdout=%q, want empty on empty input", stdout)
	}

	out, _, code := c.RunWithInput("help\n", "shell", "notes")
	if code != 0 {
		t.Fatalf("exit=%d", code)
	}

	cli.AssertContains(t, out, "repository argument is implied")
	cli.AssertContains(t, out, "query")
	cli.AssertNotContains(t, out, "print-config")
}

func Test_Shell_Fails_When_Repository_Name_Is_Invalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	_, stderr, code := c.RunWithInput("ls\n", "shell", "no/slash")
	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}

	cli.AssertContains(t, stderr, "invalid repository name")
}
