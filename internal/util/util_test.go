package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "caml.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
strict = true
debug_ast = "yaml"
max_phrase_words = 3
journal = "sqlite3://run.db"
log_level = "debug"
`)
	cfg := DefaultConfiguration()
	require.NoError(t, LoadConfigFile(path, &cfg))

	assert.True(t, cfg.Strict)
	assert.Equal(t, "yaml", cfg.DebugAST)
	assert.Equal(t, 3, cfg.MaxPhraseWords)
	assert.Equal(t, "sqlite3://run.db", cfg.JournalDSN)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched defaults survive
	assert.Equal(t, DefaultMaxCallDepth, cfg.MaxCallDepth)
	assert.Equal(t, "**", cfg.BoldMarker)
}

func TestLoadConfigFileErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":  "colour = true",
		"bad ast mode": `debug_ast = "xml"`,
		"bad window":   "max_phrase_words = 0",
		"syntax":       "strict = = true",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfiguration()
			assert.Error(t, LoadConfigFile(writeConfig(t, body), &cfg))
		})
	}

	cfg := DefaultConfiguration()
	assert.Error(t, LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"), &cfg))
}

func TestGetContextLines(t *testing.T) {
	src := "Assign 5 to x\nDisplay x\nfrobnicate now\nDisplay y"

	got := GetContextLines(src, 3, 11, "unrecognized statement")
	assert.Equal(t,
		"       1 | Assign 5 to x\n"+
			"       2 | Display x\n"+
			"  >    3 | frobnicate now\n"+
			"                      ^ unrecognized statement",
		got)

	got = GetContextLines("    Divide x by 0", 1, -1, "division by zero")
	assert.Equal(t,
		"  >    1 |     Divide x by 0\n"+
			"               ^ division by zero",
		got)

	assert.Empty(t, GetContextLines(src, 9, 0, "out of range"))
}
