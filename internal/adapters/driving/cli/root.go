// Package cli provides the afcoco command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/afcoco/internal/adapters/driven/annofabcli"
	"github.com/custodia-labs/afcoco/internal/adapters/driven/bundle"
	"github.com/custodia-labs/afcoco/internal/adapters/driven/config/file"
	"github.com/custodia-labs/afcoco/internal/adapters/driven/maskimage"
	"github.com/custodia-labs/afcoco/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
	"github.com/custodia-labs/afcoco/internal/core/ports/driving"
	"github.com/custodia-labs/afcoco/internal/core/services"
	"github.com/custodia-labs/afcoco/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Global flags.
var (
	verbose    bool
	configPath string
	noConfig   bool
	logFile    string
)

// Collaborators, replaced in tests.
var (
	openBundle = bundle.Open

	newID driven.IDGenerator = uuid.NewString

	maskCodec driven.MaskImageCodec = maskimage.NewPNGCodec()

	newPlatformService = func(opts services.PlatformOptions, log driven.Logger) driving.PlatformService {
		return services.NewPlatformService(annofabcli.NewRunner(nil, nil), opts, log)
	}

	confirm = confirmOnTerminal
)

// Set up per run by PersistentPreRunE.
var (
	config  driven.ConfigStore
	appLog  *logger.Logger
	logSink io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "afcoco",
	Short: "Convert annotations between Annofab and COCO",
	Long: `afcoco converts Annofab simple annotations to COCO Instances documents and
COCO Instances annotations to files annofabcli can import. It can also register
the images of a COCO document as Annofab input data and create tasks for them.

Defaults are read from ~/.afcoco/config.toml (or --config).`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupRun,
	PersistentPostRunE: teardownRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug messages")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.afcoco/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore the config file")
	rootCmd.MarkFlagsMutuallyExclusive("config", "no-config")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append log messages to this file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		log := appLog
		if log == nil {
			log = logger.Default()
		}
		reportError(log, cmd, err)
		_ = teardownRun(rootCmd, nil)
		os.Exit(1)
	}
}

// reportError logs err. Verbose runs also get the failing command and every
// error in the wrapped chain.
func reportError(log *logger.Logger, cmd *cobra.Command, err error) {
	log.Error("%v", err)
	if cmd != nil {
		log.Debug("Failed command: %s", cmd.CommandPath())
	}
	for i, cause := range errorChain(err) {
		log.Debug("  #%d %T: %v", i, cause, cause)
	}
}

// errorChain flattens err and everything it wraps, depth first.
func errorChain(err error) []error {
	if err == nil {
		return nil
	}
	chain := []error{err}
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		chain = append(chain, errorChain(e.Unwrap())...)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			chain = append(chain, errorChain(inner)...)
		}
	}
	return chain
}

func setupRun(cmd *cobra.Command, _ []string) error {
	store, err := loadConfig()
	if err != nil {
		return err
	}
	config = store

	if !cmd.Flags().Changed("verbose") && store.GetBool(file.KeyVerbose) {
		verbose = true
	}

	var out io.Writer = cmd.ErrOrStderr()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logSink = f
		out = io.MultiWriter(out, f)
	}

	appLog = logger.New(out, verbose)
	appLog.Debug("Using config file %s", store.Path())
	return nil
}

func loadConfig() (driven.ConfigStore, error) {
	if noConfig {
		return memory.NewConfigStore(nil), nil
	}
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return store, nil
}

func teardownRun(_ *cobra.Command, _ []string) error {
	if logSink == nil {
		return nil
	}
	err := logSink.Close()
	logSink = nil
	return err
}

// platformOptions merges the annofabcli settings of the config file with tempDir.
func platformOptions(tempDir string) services.PlatformOptions {
	opts := services.PlatformOptions{TempDir: tempDir}
	if config != nil {
		opts.Executable = config.GetString(file.KeyAnnofabCLIPath)
		opts.Parallelism = config.GetInt(file.KeyAnnofabCLIParallelism)
	}
	return opts
}

// projectID returns the flag value, falling back to the config file.
func projectID(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if config != nil {
		if id := config.GetString(file.KeyProjectID); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("--project-id is required (or set %s in the config file)", file.KeyProjectID)
}
