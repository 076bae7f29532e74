package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vidfit/internal/dirs"
	"vidfit/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. VIDFIT_SIZE=50.
const EnvPrefix = "VIDFIT"

// Settings are the resolved runtime options. Precedence: flag > env > config file > default.
type Settings struct {
	SizeMB  int
	Verbose bool
	FFmpeg  string
	FFprobe string
	NoUI    bool

	ConfigFile string // config file actually read, empty if none
}

// flag name -> viper key
var bindings = map[string]string{
	"size":    "size",
	"verbose": "verbose",
	"ffmpeg":  "ffmpeg",
	"ffprobe": "ffprobe",
	"no-ui":   "no_ui",
}

// Init wires v with the config search path, env and flag bindings, then
// reads the config file. A missing config file is not an error; a malformed
// one is. When explicitFile is non-empty only that file is read.
func Init(v *viper.Viper, flags *pflag.FlagSet, explicitFile string) error {
	v.SetDefault("size", int(model.DefaultSize))

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		if cfgDir, err := dirs.ConfigDir(); err == nil {
			v.AddConfigPath(cfgDir)
		}
		v.SetConfigName("config") // supports config.{yaml|yml|json|toml}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range bindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load extracts Settings from an initialized viper instance.
func Load(v *viper.Viper) Settings {
	return Settings{
		SizeMB:     v.GetInt("size"),
		Verbose:    v.GetBool("verbose"),
		FFmpeg:     strings.TrimSpace(v.GetString("ffmpeg")),
		FFprobe:    strings.TrimSpace(v.GetString("ffprobe")),
		NoUI:       v.GetBool("no_ui"),
		ConfigFile: v.ConfigFileUsed(),
	}
}

const sampleConfig = `# vidfit configuration. Flags and VIDFIT_* environment variables take precedence.

# Target size in MB: 50 or 100.
size: 100

# Print subprocess command lines and debug output.
verbose: false

# Disable the interactive progress view.
no_ui: false

# Explicit tool locations; empty means search PATH.
ffmpeg: ""
ffprobe: ""
`

// DefaultPath is the config file created by WriteSample when no path is given.
func DefaultPath() (string, error) {
	dir, err := dirs.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// WriteSample writes a commented YAML config to path, creating its directory.
// An existing file is only replaced when overwrite is set.
func WriteSample(path string, overwrite bool) error {
	if err := dirs.Ensure(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("check config path: %w", err)
		}
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
