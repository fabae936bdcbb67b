package util

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	DefaultRootPath       = "."
	DefaultMaxPhraseWords = 4
	DefaultMaxCallDepth   = 512
	DefaultBoldMarker     = "**"
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`
	CamlHome  string `toml:"-"`

	RootPath       string `toml:"root_path"`
	DebugAST       string `toml:"debug_ast"` // "", "json", "yaml" or "text"
	Strict         bool   `toml:"strict"`
	MaxPhraseWords int    `toml:"max_phrase_words"`
	MaxCallDepth   int    `toml:"max_call_depth"`
	BoldMarker     string `toml:"bold_marker"`
	JournalDSN     string `toml:"journal"`

	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
	LogFormat string `toml:"log_format"`
	LogColor  bool   `toml:"log_color"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		RootPath:       DefaultRootPath,
		MaxPhraseWords: DefaultMaxPhraseWords,
		MaxCallDepth:   DefaultMaxCallDepth,
		BoldMarker:     DefaultBoldMarker,
		LogLevel:       "none",
		LogFormat:      "text",
	}
}

// LoadConfigFile overlays the TOML file at path onto cfg. Unknown keys are an error.
func LoadConfigFile(path string, cfg *Configuration) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file '%s'", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.Errorf("unknown keys in config file '%s': %s", path, strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

func (c Configuration) Validate() error {
	switch c.DebugAST {
	case "", "json", "yaml", "text":
	default:
		return errors.Errorf("debug_ast must be json, yaml or text, got %q", c.DebugAST)
	}
	if c.MaxPhraseWords < 1 {
		return errors.Errorf("max_phrase_words must be at least 1, got %d", c.MaxPhraseWords)
	}
	if c.MaxCallDepth < 1 {
		return errors.Errorf("max_call_depth must be at least 1, got %d", c.MaxCallDepth)
	}
	return nil
}
