package project

import (
	"fmt"
	"os"

	"github.com/mstoykov/envconfig"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"go.protok.dev/protok/lib/fsext"
	"go.protok.dev/protok/render"
)

// DefaultConfigPath is where the project file is looked up when no explicit
// --config path is given. A missing default file is not an error.
const DefaultConfigPath = "protok.yaml"

// Config holds the consolidated project configuration. Invalid null fields
// mean "not set", which is what lets the consolidation tell an explicit
// value apart from a missing one.
type Config struct {
	ProtoPaths []string    `envconfig:"PROTOK_PROTO_PATHS"`
	Template   null.String `envconfig:"PROTOK_TEMPLATE"`
	OutDir     null.String `envconfig:"PROTOK_OUT_DIR"`
	Suffix     null.String `envconfig:"PROTOK_SUFFIX"`

	Jobs []JobConfig `ignored:"true"`
}

// JobConfig is one configured output job. Unset fields fall back to the
// top-level template, out dir and suffix.
type JobConfig struct {
	Template string
	Dir      null.String
	Suffix   null.String
}

// NewConfig returns a Config with the default values, all marked invalid so
// that any configuration source overrides them.
func NewConfig() Config {
	return Config{
		Template: null.NewString(render.MarkdownTarget, false),
		OutDir:   null.NewString(".", false),
	}
}

// Apply overlays the set values from cfg on top of the receiver.
func (c Config) Apply(cfg Config) Config {
	if len(cfg.ProtoPaths) > 0 {
		c.ProtoPaths = cfg.ProtoPaths
	}
	if cfg.Template.Valid {
		c.Template = cfg.Template
	}
	if cfg.OutDir.Valid {
		c.OutDir = cfg.OutDir
	}
	if cfg.Suffix.Valid {
		c.Suffix = cfg.Suffix
	}
	if len(cfg.Jobs) > 0 {
		c.Jobs = cfg.Jobs
	}
	return c
}

// GetConsolidatedConfig combines configuration from all sources: defaults,
// then the project file, then PROTOK_* environment variables, then flags.
// Later sources win. An empty configPath means the default file, which is
// allowed to be absent; a path the caller named must exist.
func GetConsolidatedConfig(
	fs fsext.Fs, flagsConf Config, env map[string]string, configPath string,
) (Config, error) {
	conf := NewConfig()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}
	fileConf, err := readConfigFile(fs, configPath)
	switch {
	case err == nil:
		conf = conf.Apply(fileConf)
	case !explicit && os.IsNotExist(err):
		// No project file, carry on with defaults.
	default:
		return conf, err
	}

	envConf := Config{}
	if err := envconfig.Process("", &envConf, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}); err != nil {
		return conf, fmt.Errorf("could not read environment configuration: %w", err)
	}
	conf = conf.Apply(envConf)

	return conf.Apply(flagsConf), nil
}

// configFile mirrors Config for the YAML file, with pointers standing in for
// the null types, which have no YAML representation of their own.
type configFile struct {
	ProtoPaths []string `yaml:"proto_paths"`
	Template   *string  `yaml:"template"`
	OutDir     *string  `yaml:"out_dir"`
	Suffix     *string  `yaml:"suffix"`
	Jobs       []struct {
		Template string  `yaml:"template"`
		Dir      *string `yaml:"dir"`
		Suffix   *string `yaml:"suffix"`
	} `yaml:"jobs"`
}

func (cf configFile) config() Config {
	conf := Config{
		ProtoPaths: cf.ProtoPaths,
		Template:   null.StringFromPtr(cf.Template),
		OutDir:     null.StringFromPtr(cf.OutDir),
		Suffix:     null.StringFromPtr(cf.Suffix),
	}
	for _, j := range cf.Jobs {
		conf.Jobs = append(conf.Jobs, JobConfig{
			Template: j.Template,
			Dir:      null.StringFromPtr(j.Dir),
			Suffix:   null.StringFromPtr(j.Suffix),
		})
	}
	return conf
}

func readConfigFile(fs fsext.Fs, path string) (Config, error) {
	data, err := fsext.ReadFile(fs, path)
	if err != nil {
		return Config{}, err
	}
	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	return cf.config(), nil
}
