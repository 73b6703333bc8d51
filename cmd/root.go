// Package cmd provides the ftlpack command-line interface.
//
// Configuration System:
//
//	Values are resolved with the following precedence:
//	1. Command-line flags (--location, --output, etc.) - highest priority
//	2. Individual environment variables (FTLPACK_OUTPUT_DIR, etc.), after
//	   a .env file in the working directory has been loaded
//	3. Configuration file (--config, FTLPACK_CONFIG_FILE or .ftlpack.yml)
//	4. Built-in defaults - lowest priority
//
// Environment Variables:
//
//	FTLPACK_CONFIG_FILE: Path to custom configuration file
//	FTLPACK_FREEMARKER_LOCATIONS: Comma-separated template locations
//	FTLPACK_CLASSPATH: Comma-separated classpath entries
//	FTLPACK_OUTPUT_DIR: Directory receiving generated resources
//	And the rest following the FTLPACK_<SECTION>_<OPTION> pattern
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/conneroisu/ftlpack/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand builds the ftlpack command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ftlpack",
		Short: "Discover FreeMarker templates and package them for native images",
		Long: `ftlpack finds every FreeMarker template (.ftl) below the configured
classpath locations, in plain directories and in jar/zip archives, and writes
a template manifest plus a native-image resource declaration so the templates
survive ahead-of-time compilation.

Quick Start:
  ftlpack list                         List discovered templates
  ftlpack build -o build/ftlpack       Write the manifest and resource config
  ftlpack watch                        Rebuild when templates change

Command Aliases:
  build (b), list (l), watch (w)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			return bindFlags(cmd, map[string]string{
				"log-level":  "log.level",
				"log-format": "log.format",
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .ftlpack.yml, can also use FTLPACK_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "log format (console, json)")

	rootCmd.AddCommand(
		newBuildCmd(),
		newListCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// initConfig loads .env, selects the configuration file and enables
// FTLPACK_ environment overrides.
//
// Configuration file priority (highest to lowest):
//  1. --config flag
//  2. FTLPACK_CONFIG_FILE environment variable
//  3. .ftlpack.yml in the current directory
//
// A missing default file is not an error; an explicitly named file must
// exist and parse.
func initConfig(cfgFile string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	explicit := true
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("FTLPACK_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		explicit = false
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ftlpack")
	}

	config.ConfigureEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}
