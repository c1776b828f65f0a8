package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/ucgas/internal/config"
	"github.com/taoyao-code/ucgas/internal/framing"
	"github.com/taoyao-code/ucgas/internal/logging"
	"github.com/taoyao-code/ucgas/internal/metrics"
	"github.com/taoyao-code/ucgas/internal/protocol/ucg"
)

// Runtime 命令行工具共用的运行环境
type Runtime struct {
	Tool     string
	RunID    string
	Config   *cfgpkg.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.CodecMetrics
	Codec    ucg.Codec
	Framing  framing.Kind
}

// NewRuntime 按配置初始化日志、指标与编解码器。
// 模式与分帧方式先于日志器解析，失败时不会留下未刷新的日志器。
func NewRuntime(tool string, cfg *cfgpkg.Config) (*Runtime, error) {
	mode, err := ucg.ParseMode(cfg.Codec.Mode)
	if err != nil {
		return nil, err
	}
	codec, err := ucg.CodecFor(mode)
	if err != nil {
		return nil, err
	}
	kind, err := framing.ParseKind(cfg.IO.Framing)
	if err != nil {
		return nil, err
	}

	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	runID := GenerateRunID(tool)
	logger = logger.With(zap.String("tool", tool), zap.String("run_id", runID))

	reg := metrics.NewRegistry()
	rt := &Runtime{
		Tool:     tool,
		RunID:    runID,
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  metrics.NewCodecMetrics(reg),
		Codec:    codec,
		Framing:  kind,
	}
	logger.Debug("runtime ready",
		zap.String("mode", string(codec.Mode())),
		zap.String("framing", string(kind)),
	)
	return rt, nil
}

// SignalContext 收到 SIGINT/SIGTERM 时取消
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Close 写出指标文本文件并刷新日志
func (rt *Runtime) Close() {
	if err := metrics.WriteTextfile(rt.Config.Metrics.Textfile, rt.Registry); err != nil {
		rt.Logger.Warn("write metrics textfile failed", zap.String("path", rt.Config.Metrics.Textfile), zap.Error(err))
	}
	_ = rt.Logger.Sync()
}

// OpenInput 打开输入文件；为空或 "-" 时使用 stdin
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// OpenOutput 创建（截断）输出文件；为空或 "-" 时使用 stdout
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
