package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/buildvars/internal/buildinfo"
	"github.com/tsukumogami/buildvars/internal/log"
)

var (
	quietFlag   bool
	verboseFlag bool
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "buildvars [flags] [NAME=VALUE ...]",
	Short: "Build helper for distribution packaging",
	Long: `buildvars compiles and installs one C++ program the way a distribution
packaging recipe expects.

The packaging convention is detected from the argument names passed:
DESTDIR/PREFIX (Gentoo), install_root/prefix (Debian-based) or
BUILDROOT/PREFIX (RPM-based). The first run compiles and caches the install
variables; a later run with INSTALL=1 installs the program.

Examples:
  buildvars PREFIX=/usr DESTDIR=/var/tmp/portage/image CXX=g++ CXXFLAGS="-O2"
  buildvars PREFIX=/usr DESTDIR=/var/tmp/portage/image INSTALL=1
  buildvars -c`,
	Version:           buildinfo.Version(),
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runBuild,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Show only errors")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Show detection and resolution diagnostics")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Show debug output, including executed commands")
	rootCmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "Build description file (buildvars.toml or buildvars.hcl)")
	rootCmd.PersistentFlags().StringVarP(&directoryFlag, "directory", "C", "", "Change to `dir` before doing anything")

	rootCmd.Flags().BoolVarP(&cleanFlag, "clean", "c", false, "Remove build artifacts instead of building")
	rootCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Print commands without executing them")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.AddCommand(profilesCmd)
}

// setupLogging installs the default logger at the level chosen by flags
// and environment.
func setupLogging(_ *cobra.Command, _ []string) error {
	log.SetDefault(log.NewText(os.Stderr, determineLogLevel()))
	return nil
}

// isTruthy reports whether an environment value means "enabled".
func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// determineLogLevel picks the log level. Flags win over environment
// variables; within each, debug beats verbose beats quiet. The default is
// INFO so detection diagnostics are shown.
func determineLogLevel() slog.Level {
	switch {
	case debugFlag:
		return slog.LevelDebug
	case verboseFlag:
		return slog.LevelInfo
	case quietFlag:
		return slog.LevelError
	}

	switch {
	case isTruthy(os.Getenv("BUILDVARS_DEBUG")):
		return slog.LevelDebug
	case isTruthy(os.Getenv("BUILDVARS_VERBOSE")):
		return slog.LevelInfo
	case isTruthy(os.Getenv("BUILDVARS_QUIET")):
		return slog.LevelError
	}

	return slog.LevelInfo
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		exitWithCode(exitCodeFor(err))
	}
}

// usageError marks invalid flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return fmt.Sprintf("%v\nRun 'buildvars --help' for usage.", e.err)
}

func (e *usageError) Unwrap() error {
	return e.err
}
