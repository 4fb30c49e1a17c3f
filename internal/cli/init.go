package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/calvinalkan/docstore/internal/config"

	flag "github.com/spf13/pflag"
)

func (a *app) initCmd() *Command {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.Bool("force", false, "Overwrite an existing "+config.FileName)

	return &Command{
		Flags: fs,
		Usage: "init [--force]",
		Short: "Write project config and create the store root",
		Long: "Write " + config.FileName + " in the working directory from the effective\n" +
			"configuration (use --root and --format to choose) and create the root directory.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			force, _ := fs.GetBool("force")

			path, err := config.WriteProject(a.cfg.EffectiveCwd, a.cfg, force)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(a.cfg.RootAbs, 0o777); err != nil {
				return fmt.Errorf("creating root: %w", err)
			}

			o.Println("wrote", path)

			return nil
		},
	}
}
