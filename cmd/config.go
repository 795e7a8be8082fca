package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"spvbuild.dev/pkg/spvbuild/internal/controller"
	"spvbuild.dev/pkg/spvbuild/internal/domain"
	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "spvbuild"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	dirFlagName       = "dir"
	outputFlagName    = "output"
	compilerFlagName  = "compiler"
	targetEnvFlagName = "target-env"
	optimizeFlagName  = "optimize"
	excludeFlagName   = "exclude"
	timeoutFlagName   = "timeout"
	colorFlagName     = "color"
	verboseFlagName   = "verbose"
	logFileFlagName   = "log-file"
	formatFlagName    = "format"

	dirKey       = "dir"
	outputKey    = "output"
	compilerKey  = "compiler"
	targetEnvKey = "target_env"
	optimizeKey  = "optimize"
	excludeKey   = "exclude"
	timeoutKey   = "timeout"
	colorKey     = "color"

	defaultDir      = ""
	defaultOptimize = true
	defaultTimeout  = time.Duration(0)
	defaultColor    = string(controller.ColorAuto)

	envPrefix = "SPVBUILD"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	logFileBaseName      = configBaseName + ".log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// configErr is reported by every command once the logger is configured.
var configErr error

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(dirKey, defaultDir)
	viper.SetDefault(outputKey, string(domain.DefaultOutputDir))
	viper.SetDefault(compilerKey, domain.DefaultCompiler)
	viper.SetDefault(targetEnvKey, domain.DefaultTargetEnv)
	viper.SetDefault(optimizeKey, defaultOptimize)
	viper.SetDefault(excludeKey, []string{})
	viper.SetDefault(timeoutKey, defaultTimeout)
	viper.SetDefault(colorKey, defaultColor)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename())
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	configErr = readConfig()
}

// readConfig loads spvbuild.yaml from the working directory. A missing file
// is not an error.
func readConfig() error {
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", viper.ConfigFileUsed(), err)
	}

	return nil
}

// defaultLogFilename keeps the log out of the shader directory, where it
// would otherwise be picked up as a shader source.
func defaultLogFilename() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}

	return filepath.Join(dir, configBaseName, logFileBaseName)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename()
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// colorsEnabled resolves the color setting against the real stdout.
func colorsEnabled() bool {
	mode, err := controller.ParseColorMode(viper.GetString(colorKey))
	if err != nil {
		mode = controller.ColorAuto
	}

	return mode.Enabled(os.Stdout)
}

func filterRulesFromConfig() domain.FilterRules {
	return domain.FilterRules{
		ExcludeSuffixes: viper.GetStringSlice(excludeKey),
		IgnoreNames:     []string{configFileName, filepath.Base(viper.GetString(logFilenameKey))},
	}
}

func scanArgsFromConfig() domain.ScanArgs {
	return domain.ScanArgs{
		BaseDir:   m.Path(viper.GetString(dirKey)),
		OutputDir: m.Path(viper.GetString(outputKey)),
		Filter:    filterRulesFromConfig(),
	}
}

func compileArgsFromConfig() domain.CompileArgs {
	return domain.CompileArgs{
		ScanArgs: scanArgsFromConfig(),
		CompileOptions: domain.CompileOptions{
			Compiler:  viper.GetString(compilerKey),
			TargetEnv: viper.GetString(targetEnvKey),
			Optimize:  viper.GetBool(optimizeKey),
			Timeout:   viper.GetDuration(timeoutKey),
		},
	}
}
