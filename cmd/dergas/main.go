package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/taoyao-code/ucgas/internal/app"
	cfgpkg "github.com/taoyao-code/ucgas/internal/config"
	"github.com/taoyao-code/ucgas/internal/disassembler"
	"github.com/taoyao-code/ucgas/internal/framing"
	"github.com/taoyao-code/ucgas/internal/protocol/ucg"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("dergas", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: dergas [flags] [infile] [outfile]")
		flags.PrintDefaults()
	}
	configPath := flags.StringP("config", "c", "", "config file (yaml/toml/json)")
	flags.BoolP("decimal", "d", false, "print 16-bit words in decimal")
	scripted := flags.BoolP("scripted", "s", false, "disassemble scripted (timestamped) messages")
	flags.String("mode", string(ucg.ModeImmediate), "message mode: immediate|scripted")
	flags.String("framing", cfgpkg.FramingDelimiter, "input record framing: delimiter|length|hex")
	flags.Uint8("delimiter", framing.DefaultDelimiter, "record delimiter byte for delimiter framing")
	flags.String("format", cfgpkg.FormatAsm, "output format: asm|yaml|toml")
	flags.Bool("stop-on-error", false, "abort on the first failing record")
	flags.String("log-level", "warn", "log level: debug|info|warn|error")
	flags.String("metrics-file", "", "write Prometheus textfile metrics on exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	// 1) 加载配置；位置参数覆盖输入输出
	cfg, err := cfgpkg.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dergas:", err)
		return 1
	}
	if *scripted {
		cfg.Codec.Mode = string(ucg.ModeScripted)
	}
	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		cfg.IO.Input = rest[0]
	case 2:
		cfg.IO.Input, cfg.IO.Output = rest[0], rest[1]
	default:
		flags.Usage()
		return 2
	}

	// 2) 日志、指标、编解码器
	rt, err := app.NewRuntime("dergas", cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dergas:", err)
		return 1
	}
	defer rt.Close()
	log := rt.Logger

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

	rr, err := framing.NewReader(in, rt.Framing, cfg.IO.Delimiter, rt.Codec)
	if err != nil {
		log.Error("create reader failed", zap.Error(err))
		return 1
	}

	// 4) 反汇编
	ctx, cancel := app.SignalContext()
	defer cancel()

	dis := disassembler.New(rt.Codec, disassembler.Options{
		PrintDecimal: cfg.Codec.PrintDecimal,
		StopOnError:  cfg.Run.StopOnError,
		Format:       cfg.Output.Format,
	}, log, rt.Metrics)
	st, err := dis.Run(ctx, rr, out)
	if err != nil {
		log.Error("disassemble aborted", zap.Error(err))
		return 1
	}
	log.Info("disassemble finished",
		zap.Int("records", st.Records),
		zap.Int("disassembled", st.Disassembled),
		zap.Int("errors", st.Errors),
	)
	if st.Errors > 0 {
		return 1
	}
	return 0
}
