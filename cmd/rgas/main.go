package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taoyao-code/ucgas/internal/app"
	"github.com/taoyao-code/ucgas/internal/assembler"
	cfgpkg "github.com/taoyao-code/ucgas/internal/config"
	"github.com/taoyao-code/ucgas/internal/framing"
	"github.com/taoyao-code/ucgas/internal/logging"
	"github.com/taoyao-code/ucgas/internal/protocol/ucg"
)

const banner = "rgas: UCGv2 Command Grammar Assembler."

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("rgas", pflag.ContinueOnError)
	flags.SortFlags = false
	configPath := flags.StringP("config", "c", "", "config file (yaml/toml/json)")
	flags.BoolP("verbose", "v", false, "echo comment lines")
	scripted := flags.BoolP("scripted", "s", false, "assemble scripted (timestamped) messages")
	hexOut := flags.BoolP("hex", "x", false, "write hexadecimal strings instead of binary")
	flags.StringP("outfile", "o", "", "output file, defaults to stdout")
	flags.StringP("infile", "f", "", "input assembly file; interactive mode when omitted")
	flags.BoolP("interactive", "I", false, "force interactive mode")
	flags.String("mode", string(ucg.ModeImmediate), "message mode: immediate|scripted")
	flags.String("framing", cfgpkg.FramingDelimiter, "output record framing: delimiter|length|hex")
	flags.Uint8("delimiter", framing.DefaultDelimiter, "record delimiter byte for delimiter framing")
	flags.Bool("stop-on-error", false, "abort on the first failing line")
	flags.String("log-level", "warn", "log level: debug|info|warn|error")
	flags.String("metrics-file", "", "write Prometheus textfile metrics on exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	// 1) 加载配置
	cfg, err := cfgpkg.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rgas:", err)
		return 1
	}
	if *scripted {
		cfg.Codec.Mode = string(ucg.ModeScripted)
	}
	if *hexOut {
		cfg.IO.Framing = cfgpkg.FramingHex
	}
	applyVerbose(cfg, flags.Changed("log-level"))
	// 未给出输入文件时进入交互模式
	interactive := cfg.Run.Interactive || cfg.IO.Input == ""

	// 2) 日志、指标、编解码器
	rt, err := app.NewRuntime("rgas", cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rgas:", err)
		return 1
	}
	defer rt.Close()
	log := rt.Logger

	if interactive {
		fmt.Fprintln(os.Stderr, banner)
	}
	if cfg.Codec.EmitComments {
		log.Info("options",
			zap.String("mode", cfg.Codec.Mode),
			zap.String("framing", cfg.IO.Framing),
			zap.Bool("interactive", interactive),
		)
	}

	// 3) 输入输出
	in, err := app.OpenInput(cfg.IO.Input)
	if err != nil {
		log.Error("open input failed", zap.Error(err))
		return 1
	}
	defer in.Close()
	out, err := app.OpenOutput(cfg.IO.Output)
	if err != nil {
		log.Error("open output failed", zap.Error(err))
		return 1
	}
	defer out.Close()

	w, err := framing.NewWriter(out, rt.Framing, cfg.IO.Delimiter)
	if err != nil {
		log.Error("create writer failed", zap.Error(err))
		return 1
	}

	// 4) 汇编
	ctx, cancel := app.SignalContext()
	defer cancel()

	asm := assembler.New(rt.Codec, assembler.Options{
		EmitComments: cfg.Codec.EmitComments,
		StopOnError:  cfg.Run.StopOnError,
		Interactive:  interactive,
		Console:      os.Stderr,
		FullPayload:  rt.Framing == framing.KindLength,
	}, log, rt.Metrics)
	st, err := asm.Run(ctx, in, w)
	if err != nil {
		log.Error("assemble aborted", zap.Error(err))
		return 1
	}
	log.Info("assemble finished",
		zap.Int("lines", st.Lines),
		zap.Int("assembled", st.Assembled),
		zap.Int("errors", st.Errors),
		zap.Int64("bytes", st.Bytes),
	)
	if st.Errors > 0 && !interactive {
		return 1
	}
	return 0
}

// applyVerbose -v 回显注释走 Info 日志；未显式指定 --log-level 时把更高的级别降到 info
func applyVerbose(cfg *cfgpkg.Config, levelSet bool) {
	if !cfg.Codec.EmitComments || levelSet {
		return
	}
	if logging.ParseLevel(cfg.Logging.Level) > zapcore.InfoLevel {
		cfg.Logging.Level = "info"
	}
}
