package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	HTTP struct {
		Port string `yaml:"port" toml:"port" env:"SAMPLE_HTTP_PORT"`
	} `yaml:"http" toml:"http"`
	Poll     time.Duration `yaml:"poll" toml:"poll" env:"SAMPLE_POLL"`
	Origins  []string      `yaml:"origins" toml:"origins" env:"SAMPLE_ORIGINS"`
	Debug    bool          `yaml:"debug" toml:"debug"`
	Skipped  string        `env:"-"`
	internal string
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "http:\n  port: \"9000\"\ndebug: true\norigins: [\"a\"]\n")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SAMPLE_HTTP_PORT", "9100")
	t.Setenv("SAMPLE_POLL", "45s")
	t.Setenv("SAMPLE_ORIGINS", "http://x, http://y,")

	var cfg sample
	require.NoError(t, LoadConfig(&cfg))

	assert.Equal(t, "9100", cfg.HTTP.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 45*time.Second, cfg.Poll)
	assert.Equal(t, []string{"http://x", "http://y"}, cfg.Origins)
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeFile(t, "cfg.toml", "debug = true\n[http]\nport = \"7000\"\n")
	t.Setenv("CONFIG_FILE", path)

	var cfg sample
	require.NoError(t, LoadConfig(&cfg))

	assert.Equal(t, "7000", cfg.HTTP.Port)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_DerivedKeys(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DEBUG", "true")
	t.Setenv("SKIPPED", "nope")

	var cfg sample
	require.NoError(t, LoadConfig(&cfg))

	assert.True(t, cfg.Debug)
	assert.Empty(t, cfg.Skipped)
}

func TestLoadConfig_Errors(t *testing.T) {
	assert.Error(t, LoadConfig(nil))

	var notStruct int
	assert.Error(t, LoadConfig(&notStruct))

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SAMPLE_POLL", "soon")
	var cfg sample
	assert.Error(t, LoadConfig(&cfg))
}

func TestLoadFile_Missing(t *testing.T) {
	var cfg sample
	err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), &cfg)
	assert.ErrorContains(t, err, "read file")
}
