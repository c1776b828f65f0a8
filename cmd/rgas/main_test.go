package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taoyao-code/ucgas/internal/assembler"
	cfgpkg "github.com/taoyao-code/ucgas/internal/config"
	"github.com/taoyao-code/ucgas/internal/framing"
	"github.com/taoyao-code/ucgas/internal/logging"
	"github.com/taoyao-code/ucgas/internal/protocol/ucg"
)

func TestRun_HexFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.asm")
	out := filepath.Join(dir, "prog.hex")
	require.NoError(t, os.WriteFile(in, []byte("# demo\n03/4 1F/7 RQRY 002 01 02\n1F/7 00/0 REDY 2046\n"), 0o644))

	code := run([]string{"-x", "-f", in, "-o", out})
	require.Equal(t, 0, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "1CFF08020102\nFF0097FE\n", string(got))
}

func TestRun_ScriptedLengthFraming(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.asm")
	out := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(in, []byte("+10 03/4 1F/7 RQRY 002 01 02\n"), 0o644))

	code := run([]string{"-s", "--framing", "length", "-f", in, "-o", out})
	require.Equal(t, 0, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A, 0x00, 0x00, 0x80, 0x1C, 0xFF, 0x08, 0x02, 0x01, 0x02}, got)
}

func TestRun_ErrorsSetExitCode(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.asm")
	require.NoError(t, os.WriteFile(in, []byte("03/4 1F/7 NOPE 000\n"), 0o644))

	assert.Equal(t, 1, run([]string{"-x", "-f", in, "-o", filepath.Join(dir, "out.hex")}))
	assert.Equal(t, 2, run([]string{"--no-such-flag"}))
}

func TestRun_LengthFramingRejectsShortPayload(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.asm")
	out := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(in, []byte("03/4 1F/7 SVAL 005 01\n03/4 1F/7 RQRY 001 01\n03/4 1F/7 NOP 000\n"), 0o644))

	assert.Equal(t, 1, run([]string{"--framing", "length", "-f", in, "-o", out}))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1C, 0xFF, 0x08, 0x01, 0x01, 0x1C, 0xFF, 0x00, 0x00}, got)
}

func loadWithFlags(t *testing.T, args ...string) (*cfgpkg.Config, *pflag.FlagSet) {
	t.Helper()
	flags := pflag.NewFlagSet("rgas", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "")
	flags.String("log-level", "warn", "")
	require.NoError(t, flags.Parse(args))
	cfg, err := cfgpkg.Load("", flags)
	require.NoError(t, err)
	return cfg, flags
}

func TestApplyVerbose_EchoesCommentsToLog(t *testing.T) {
	cfg, flags := loadWithFlags(t, "-v")
	applyVerbose(cfg, flags.Changed("log-level"))
	assert.Equal(t, "info", cfg.Logging.Level)

	core, logs := observer.New(logging.ParseLevel(cfg.Logging.Level))
	codec, err := ucg.CodecFor(ucg.ModeImmediate)
	require.NoError(t, err)
	asm := assembler.New(codec, assembler.Options{EmitComments: cfg.Codec.EmitComments}, zap.New(core), nil)

	var out bytes.Buffer
	w, err := framing.NewWriter(&out, framing.KindHex, 0)
	require.NoError(t, err)
	_, err = asm.Run(context.Background(), strings.NewReader("# setup\n03/4 1F/7 RQRY 000\n"), w)
	require.NoError(t, err)

	entries := logs.FilterMessage("comment").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "# SETUP", entries[0].ContextMap()["text"])
}

func TestApplyVerbose_KeepsExplicitLevel(t *testing.T) {
	cfg, flags := loadWithFlags(t, "-v", "--log-level", "error")
	applyVerbose(cfg, flags.Changed("log-level"))
	assert.Equal(t, "error", cfg.Logging.Level)

	cfg, flags = loadWithFlags(t)
	applyVerbose(cfg, flags.Changed("log-level"))
	assert.Equal(t, "warn", cfg.Logging.Level)

	cfg, flags = loadWithFlags(t, "-v", "--log-level", "debug")
	applyVerbose(cfg, flags.Changed("log-level"))
	assert.Equal(t, "debug", cfg.Logging.Level)
}
