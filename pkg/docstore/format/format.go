// Package format provides [docstore.Formatter] implementations.
//
// Every formatter here round-trips the [docstore.Value] kinds: Encode followed
// by Decode yields equal Fields. Field order is preserved too, with one
// exception: [Markdown] always decodes its body field last.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

// ErrUnknownFormat is returned by [ByName] for an unregistered name.
var ErrUnknownFormat = errors.New("unknown format")

// ErrNotObject indicates content whose top level is not a mapping.
var ErrNotObject = errors.New("top-level value is not an object")

// Options tunes formatters built by [ByName].
type Options struct {
	// Pretty indents JSON output. Ignored by YAML and Markdown.
	Pretty bool

	// Compress wraps the formatter with [Zstd].
	Compress bool
}

// Names lists the names [ByName] accepts.
func Names() []string {
	return []string{"json", "jsonc", "yaml", "md"}
}

// ByName returns the formatter registered under name. "markdown" and "yml"
// are accepted as aliases.
func ByName(name string, opts Options) (docstore.Formatter, error) {
	var f docstore.Formatter

	switch strings.ToLower(name) {
	case "json":
		f = NewJSON(WithIndent(opts.Pretty))
	case "jsonc", "hujson":
		f = NewJSONC()
	case "yaml", "yml":
		f = NewYAML()
	case "md", "markdown":
		f = NewMarkdown()
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Names(), ", "))
	}

	if opts.Compress {
		return NewZstd(f)
	}

	return f, nil
}
