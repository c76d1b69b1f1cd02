// Package cli implements the stoplist command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/internal/logging"
	"github.com/mesh-intelligence/stoplist/internal/paths"
	"github.com/mesh-intelligence/stoplist/pkg/stoplist"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir  string
	dataDir    string
	restaurant string
	jsonMode   bool
}

// app carries the state shared by the commands of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
	logger    *zap.Logger
	cleanup   []func()
}

// NewRootCmd creates the top-level "stoplist" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{logger: zap.NewNop()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "stoplist",
		Short:   "Manage the stop list of a restaurant menu",
		Long:    "Stoplist marks menu items as available or stopped, one by one,\nby category, or through custom categories, and saves the result.",
		Version: stoplist.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.close() },
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return userError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory for the sqlite backend (default: platform data dir)")
	pf.StringVar(&a.flags.restaurant, "restaurant", "", "restaurant ID (default: config, then the first active restaurant)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newRestaurantsCmd(a))
	root.AddCommand(newMenuCmd(a))
	root.AddCommand(newToggleCmd(a))
	root.AddCommand(newToggleCategoryCmd(a))
	root.AddCommand(newShellCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	a := &app{logger: zap.NewNop()}
	defer a.close()
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	var ue userError
	if errors.As(err, &ue) {
		return exitUserError
	}
	return exitSysError
}

// setup loads .env, config.yaml and the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.configDir = configDir
	a.cfg = cfg

	logger, closeLog, err := logging.New(logging.Options{
		Mode:    cfg.GetString(cfgKeyLogMode),
		Level:   cfg.GetString(cfgKeyLogLevel),
		File:    cfg.GetString(cfgKeyLogFile),
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return userErrorf("configure logging: %w", err)
	}
	undo := zap.ReplaceGlobals(logger)
	a.logger = logger
	a.cleanup = append(a.cleanup, undo, closeLog)
	return nil
}

// close releases what setup acquired, newest first.
func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

// userError marks failures caused by bad input rather than the system.
type userError struct{ err error }

func (e userError) Error() string { return e.err.Error() }
func (e userError) Unwrap() error { return e.err }

func userErrorf(format string, args ...any) error {
	return userError{err: fmt.Errorf(format, args...)}
}
