package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "AQUASIM"

// Settings are the application-level options shared by every command.
type Settings struct {
	DataDir  string `mapstructure:"data"`
	LogLevel string `mapstructure:"log-level"`
	Pretty   bool   `mapstructure:"pretty"`
	LogFile  string `mapstructure:"log-file"`
}

// loadSettings resolves settings from, in increasing priority: defaults, the
// optional settings file, AQUASIM_* environment variables, and flags.
func loadSettings(cmd *cobra.Command, v *viper.Viper, file string) (Settings, error) {
	v.SetDefault("data", ".aquasim")
	v.SetDefault("log-level", "warn")
	v.SetDefault("pretty", true)
	v.SetDefault("log-file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range []string{"data", "log-level", "pretty", "log-file"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return Settings{}, err
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
