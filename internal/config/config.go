package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotkit-labs/dotkit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known keys.
const (
	KeyPushBase          = "push.base"
	KeyPushRemote        = "push.remote"
	KeyDotfilesDir       = "dotfiles.dir"
	KeyBootstrapManifest = "bootstrap.manifest"
	KeyTemplatesFile     = "configfiles.templates"
	KeyContextFile       = "configfiles.context"
	KeyBinDir            = "bin.dir"
	KeyLogLevel          = "log.level"
)

// Dir returns the dotkit config directory: $DOTKIT_HOME, else ~/.dotkit.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyPushBase, "main")
	viper.SetDefault(KeyPushRemote, "origin")
	viper.SetDefault(KeyDotfilesDir, ".")
	viper.SetDefault(KeyBootstrapManifest, "")
	viper.SetDefault(KeyTemplatesFile, "")
	viper.SetDefault(KeyContextFile, "")
	viper.SetDefault(KeyBinDir, defaultBinDir())
	viper.SetDefault(KeyLogLevel, "info")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Path returns a config value with a leading "~" expanded.
func Path(key string) string {
	p := Get(key)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Reset discards all loaded settings. Tests call it between cases.
func Reset() {
	viper.Reset()
}

func defaultBinDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "bin")
	}
	return filepath.Join(home, ".local", "bin")
}
