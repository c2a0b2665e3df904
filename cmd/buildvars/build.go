package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/buildvars/internal/args"
	"github.com/tsukumogami/buildvars/internal/buildfile"
	"github.com/tsukumogami/buildvars/internal/buildinfo"
	"github.com/tsukumogami/buildvars/internal/config"
	"github.com/tsukumogami/buildvars/internal/helper"
	"github.com/tsukumogami/buildvars/internal/log"
)

var (
	cleanFlag     bool
	dryRunFlag    bool
	fileFlag      string
	directoryFlag string
)

func runBuild(cmd *cobra.Command, argv []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	desc, err := loadDescription(cfg)
	if err != nil {
		return err
	}
	if err := desc.CheckVersion(buildinfo.Version(), log.Default()); err != nil {
		return err
	}

	src := args.Parse(argv)
	src.SetOption(args.OptionClean, cleanFlag)
	src.SetOption(args.OptionDryRun, dryRunFlag)

	h, err := helper.New(desc, src, cfg,
		helper.WithLogger(log.Default()),
		helper.WithOutput(userOutput()),
	)
	if err != nil {
		return err
	}

	result, err := h.Run(cmd.Context())
	if err != nil {
		return err
	}

	if result.Mode == helper.ModeClean {
		printInfof("Cleaned %d file(s), skipped %d\n", len(result.Clean.Deleted), len(result.Clean.Skipped))
	}
	return nil
}

// loadConfig changes to the -C directory, if any, and resolves file
// locations from there.
func loadConfig() (*config.Config, error) {
	if directoryFlag != "" {
		if err := os.Chdir(directoryFlag); err != nil {
			return nil, &usageError{err: fmt.Errorf("cannot change to directory: %w", err)}
		}
	}
	return config.DefaultConfig("")
}

// loadDescription reads the build description named by --file, then
// BUILDVARS_FILE, then the one found in the working directory.
func loadDescription(cfg *config.Config) (*buildfile.Description, error) {
	path := fileFlag
	if path == "" {
		path = cfg.DescriptionFile
	}
	if path == "" {
		found, err := buildfile.Find(cfg.WorkDir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	log.Default().Debug("loading build description", "path", path)
	return buildfile.Load(path)
}
