package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "ucgas", cfg.App.Name)
	assert.Equal(t, ModeImmediate, cfg.Codec.Mode)
	assert.Equal(t, FramingDelimiter, cfg.IO.Framing)
	assert.Equal(t, uint8('\n'), cfg.IO.Delimiter)
	assert.Equal(t, FormatAsm, cfg.Output.Format)
	assert.False(t, cfg.Run.StopOnError)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ucgas.yaml")
	content := []byte(`
codec:
  mode: scripted
  printDecimal: true
io:
  framing: length
run:
  stopOnError: true
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("UCG_OUTPUT_FORMAT", "yaml")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("framing", FramingDelimiter, "")
	fs.Bool("decimal", false, "")
	require.NoError(t, fs.Parse([]string{"--framing", "hex"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, ModeScripted, cfg.Codec.Mode)
	assert.True(t, cfg.Codec.PrintDecimal, "unset flag must not override file")
	assert.Equal(t, FramingHex, cfg.IO.Framing, "set flag overrides file")
	assert.Equal(t, FormatYAML, cfg.Output.Format, "env overrides default")
	assert.True(t, cfg.Run.StopOnError)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec:\n  mode: batch\nio:\n  framing: tlv\n"), 0o600))

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codec.mode")
	assert.Contains(t, err.Error(), "io.framing")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_NormalizesEnums(t *testing.T) {
	t.Setenv("UCG_CODEC_MODE", " Scripted ")
	t.Setenv("UCG_IO_FRAMING", "HEX")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ModeScripted, cfg.Codec.Mode)
	assert.Equal(t, FramingHex, cfg.IO.Framing)
}
