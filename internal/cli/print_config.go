package cli

import (
	"context"
	"strconv"

	flag "github.com/spf13/pflag"
)

func (a *app) printConfigCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			cfg := a.cfg

			o.Println("effective_cwd=" + cfg.EffectiveCwd)
			o.Println("root=" + cfg.RootAbs)
			o.Println("format=" + cfg.Format)
			o.Println("compress=" + strconv.FormatBool(cfg.Compress))
			o.Println("strict_decode=" + strconv.FormatBool(cfg.StrictDecode))
			o.Println("pretty=" + strconv.FormatBool(cfg.Pretty))

			o.Println("")
			o.Println("# sources")

			if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
				o.Println("(defaults only)")
			} else {
				if cfg.Sources.Global != "" {
					o.Println("global_config=" + cfg.Sources.Global)
				}

				if cfg.Sources.Project != "" {
					o.Println("project_config=" + cfg.Sources.Project)
				}
			}

			return nil
		},
	}
}
