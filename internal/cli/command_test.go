package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flag "github.com/spf13/pflag"
)

func Test_Args_Check_Enforces_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args Args
		n    int
		ok   bool
	}{
		{name: "zero value accepts none", args: Args{}, n: 0, ok: true},
		{name: "zero value rejects one", args: Args{}, n: 1, ok: false},
		{name: "exact below", args: exactArgs(2, "<a> <b>"), n: 1, ok: false},
		{name: "exact match", args: exactArgs(2, "<a> <b>"), n: 2, ok: true},
		{name: "exact above", args: exactArgs(2, "<a> <b>"), n: 3, ok: false},
		{name: "min below", args: minArgs(1, "<a>..."), n: 0, ok: false},
		{name: "min unbounded", args: minArgs(1, "<a>..."), n: 50, ok: true},
	}

	for _, tt := range tests {
		err := tt.args.check(make([]string, tt.n))
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.ErrorIs(t, err, errBadArgs, tt.name)
		}
	}
}

func Test_Command_Run_Skips_Exec_When_Args_Do_Not_Fit(t *testing.T) {
	t.Parallel()

	called := false
	c := &Command{
		Flags: flag.NewFlagSet("demo", flag.ContinueOnError),
		Usage: "demo <repo> <id>",
		Args:  exactArgs(2, "<repo> <id>"),
		Exec: func(context.Context, *IO, []string) error {
			called = true

			return nil
		},
	}

	var out, errOut bytes.Buffer

	code := c.Run(context.Background(), NewIO(&out, &errOut), []string{"only"})

	require.Equal(t, 1, code)
	assert.False(t, called)
	assert.Empty(t, out.String())
	assert.Equal(t,
		"error: wrong number of arguments: want <repo> <id>, got 1 (usage: docstore demo <repo> <id>)\n",
		errOut.String())

	code = c.Run(context.Background(), NewIO(&out, &errOut), []string{"r", "x"})
	require.Equal(t, 0, code)
	assert.True(t, called)
}
