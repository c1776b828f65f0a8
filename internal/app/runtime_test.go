package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/taoyao-code/ucgas/internal/config"
	"github.com/taoyao-code/ucgas/internal/framing"
	"github.com/taoyao-code/ucgas/internal/protocol/ucg"
)

func TestGenerateRunID(t *testing.T) {
	t.Setenv("UCG_RUN_ID", "")
	id := GenerateRunID("rgas")
	assert.True(t, strings.HasPrefix(id, "rgas-"), id)
	assert.NotEqual(t, id, GenerateRunID("rgas"))

	t.Setenv("UCG_RUN_ID", "fixed")
	assert.Equal(t, "fixed", GenerateRunID("rgas"))
}

func TestNewRuntime(t *testing.T) {
	cfg, err := cfgpkg.Load("", nil)
	require.NoError(t, err)
	cfg.Codec.Mode = string(ucg.ModeScripted)
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "dergas.prom")

	rt, err := NewRuntime("dergas", cfg)
	require.NoError(t, err)
	assert.Equal(t, ucg.ModeScripted, rt.Codec.Mode())
	assert.Equal(t, framing.KindDelimiter, rt.Framing)
	assert.NotEmpty(t, rt.RunID)

	rt.Metrics.RecordsTotal.WithLabelValues("scripted", "ok").Inc()
	rt.Close()

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ucg_binary_records_total")
}

func TestNewRuntime_RejectsUnknownEnums(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rgas.log")
	base := func() *cfgpkg.Config {
		cfg, err := cfgpkg.Load("", nil)
		require.NoError(t, err)
		cfg.Logging.File.Filename = logPath
		return cfg
	}

	cfg := base()
	cfg.Codec.Mode = "batch"
	_, err := NewRuntime("rgas", cfg)
	assert.Error(t, err)

	cfg = base()
	cfg.IO.Framing = "tlv"
	_, err = NewRuntime("rgas", cfg)
	assert.Error(t, err)

	// 配置错误在创建日志器之前返回
	_, statErr := os.Stat(logPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenInputOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	w, err := OpenOutput(path)
	require.NoError(t, err)
	_, err = w.Write([]byte{0x1C, 0xFF, 0x08, 0x00})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenInput(path)
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1C, 0xFF, 0x08, 0x00}, b)

	_, err = OpenInput(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
