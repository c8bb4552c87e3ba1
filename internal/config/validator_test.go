package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLogLevel(t *testing.T) {
	v := NewValidator()

	for _, level := range []string{"debug", "info", "warn", "error"} {
		assert.NoError(t, v.ValidateLogLevel(level), level)
	}
	for _, level := range []string{"", "trace", "INFO"} {
		err := v.ValidateLogLevel(level)
		require.Error(t, err, level)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	}
}

func TestValidatePort(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		port  int
		valid bool
	}{
		{1, true},
		{8088, true},
		{65535, true},
		{0, false},
		{-1, false},
		{65536, false},
	}
	for _, tt := range tests {
		err := v.ValidatePort(tt.port)
		if tt.valid {
			assert.NoError(t, err, tt.port)
		} else {
			assert.Error(t, err, tt.port)
		}
	}
}

func TestValidateCatalogPath(t *testing.T) {
	v := NewValidator()
	dir := t.TempDir()
	file := filepath.Join(dir, "tools.yaml")
	require.NoError(t, os.WriteFile(file, []byte("tools: []\n"), 0o644))

	assert.NoError(t, v.ValidateCatalogPath(""))
	assert.NoError(t, v.ValidateCatalogPath(file))
	assert.Error(t, v.ValidateCatalogPath(dir))
	assert.Error(t, v.ValidateCatalogPath(filepath.Join(dir, "missing.yaml")))
}

func TestValidateCategory(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateCategory(""))
	assert.NoError(t, v.ValidateCategory("search"))
	assert.NoError(t, v.ValidateCategory("Helpers"))

	err := v.ValidateCategory("analytics")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidateNil(t *testing.T) {
	err := NewValidator().Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestWizard(t *testing.T) {
	t.Run("defaults on empty answers", func(t *testing.T) {
		out := &strings.Builder{}
		cfg, err := NewWizard(strings.NewReader("\n\n\n\n"), out).Run(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Contains(t, out.String(), "Server port [8088]")
	})

	t.Run("reprompts on invalid answers", func(t *testing.T) {
		catalogFile := filepath.Join(t.TempDir(), "tools.yaml")
		require.NoError(t, os.WriteFile(catalogFile, []byte("tools: []\n"), 0o644))

		input := strings.Join([]string{
			"loud", "debug", // level
			"0.0.0.0",        // host
			"abc", "9000",    // port
			catalogFile, "y", // catalog
		}, "\n") + "\n"

		out := &strings.Builder{}
		cfg, err := NewWizard(strings.NewReader(input), out).Run(DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, catalogFile, cfg.Catalog.Path)
		assert.True(t, cfg.Catalog.Watch)
		assert.Contains(t, out.String(), "invalid log level")
		assert.Contains(t, out.String(), `invalid port "abc"`)
	})

	t.Run("input ends early", func(t *testing.T) {
		_, err := NewWizard(strings.NewReader("debug\n"), &strings.Builder{}).Run(nil)
		assert.Error(t, err)
	})
}
