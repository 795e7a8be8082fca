// Package cmd provides the root command and CLI setup for spvbuild.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"spvbuild.dev/pkg/spvbuild/internal/adapter"
	"spvbuild.dev/pkg/spvbuild/internal/controller"
	"spvbuild.dev/pkg/spvbuild/internal/domain"
)

var fsAdapter adapter.ShaderFSAdapter
var compilerAdapter adapter.CompilerAdapter
var shaderCompiler domain.ShaderCompiler
var workflow domain.Workflow
var ui controller.UI

var (
	dirFlag       string
	outputFlag    string
	compilerFlag  string
	targetEnvFlag string
	optimizeFlag  bool
	excludeFlag   []string
	timeoutFlag   time.Duration
	colorFlag     string
	verboseFlag   bool
	logFileFlag   string
)

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, colorsEnabled)
	fsAdapter = adapter.NewLocalShaderFSAdapter()
	compilerAdapter = adapter.NewLocalCompilerAdapter()
	shaderCompiler = domain.NewShaderCompiler(compilerAdapter)
	workflow = domain.NewWorkflow(fsAdapter, ui, shaderCompiler)
}

const rootLongDescription = `spvbuild compiles every shader source in a directory to SPIR-V.

Each regular file in the directory is passed to the shader compiler
(glslc by default) as:

  glslc --target-env=vulkan1.2 -O -o bin/<name>.spv <name>

Files ending in .glsl (shared includes), .py and .go are always skipped;
--exclude adds more suffixes to that list. The build
stops at the first shader that fails to compile and exits with status 1.

By default the directory containing the spvbuild executable is compiled;
use --dir to point it elsewhere.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "spvbuild",
		Short:         "Batch compile shaders to SPIR-V",
		Long:          rootLongDescription,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			if configErr != nil {
				slog.Error("Failed to load configuration", "error", configErr)
				return configErr
			}

			if _, err := controller.ParseColorMode(viper.GetString(colorKey)); err != nil {
				return err
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Compile(cmd.Context(), compileArgsFromConfig())
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&dirFlag, dirFlagName, "d", viper.GetString(dirKey), "shader directory (default: directory of the spvbuild executable)")
	bindFlagToConfig(flags.Lookup(dirFlagName), dirKey)

	flags.StringVarP(&outputFlag, outputFlagName, "o", viper.GetString(outputKey), "output directory for .spv artifacts, relative to the shader directory")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputKey)

	flags.StringVar(&compilerFlag, compilerFlagName, viper.GetString(compilerKey), "shader compiler executable")
	bindFlagToConfig(flags.Lookup(compilerFlagName), compilerKey)

	flags.StringVar(&targetEnvFlag, targetEnvFlagName, viper.GetString(targetEnvKey), "value passed as --target-env to the compiler")
	bindFlagToConfig(flags.Lookup(targetEnvFlagName), targetEnvKey)

	flags.BoolVar(&optimizeFlag, optimizeFlagName, viper.GetBool(optimizeKey), "pass -O to the compiler")
	bindFlagToConfig(flags.Lookup(optimizeFlagName), optimizeKey)

	flags.StringArrayVarP(&excludeFlag, excludeFlagName, "x", viper.GetStringSlice(excludeKey), "also skip files ending with suffix, on top of .glsl, .py and .go (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeKey)

	flags.DurationVar(&timeoutFlag, timeoutFlagName, viper.GetDuration(timeoutKey), "per-shader compiler timeout, e.g. 30s (0 waits forever)")
	bindFlagToConfig(flags.Lookup(timeoutFlagName), timeoutKey)

	flags.StringVar(&colorFlag, colorFlagName, viper.GetString(colorKey), "color output: auto, always or never")
	bindFlagToConfig(flags.Lookup(colorFlagName), colorKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel the running compiler; any error exits with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		printError(rootCmd, err)
		os.Exit(1)
	}
}

// printError shows err on stderr unless the build already reported it.
func printError(cmd *cobra.Command, err error) {
	if errors.Is(err, domain.ErrCompilationFailure) {
		return
	}

	cmd.PrintErrln("Error:", err)
}
