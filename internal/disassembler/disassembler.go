package disassembler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/taoyao-code/ucgas/internal/framing"
	"github.com/taoyao-code/ucgas/internal/metrics"
	"github.com/taoyao-code/ucgas/internal/protocol/ucg"
)

// 输出格式
const (
	FormatAsm  = "asm"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Options 反汇编器配置
type Options struct {
	PrintDecimal bool
	StopOnError  bool
	Format       string // asm | yaml | toml
}

// Stats 一次运行的统计
type Stats struct {
	Records      int `json:"records"`
	Disassembled int `json:"disassembled"`
	Errors       int `json:"errors"`
}

// RecordError 某条记录无法反汇编
type RecordError struct {
	Index int
	Raw   []byte
	Err   error
}

func (e *RecordError) Error() string { return fmt.Sprintf("record %d: %v", e.Index, e.Err) }

func (e *RecordError) Unwrap() error { return e.Err }

// Entry YAML/TOML 清单中的一条记录
type Entry struct {
	Index     int     `yaml:"index" toml:"index"`
	Raw       string  `yaml:"raw" toml:"raw"`
	Relative  *bool   `yaml:"relative,omitempty" toml:"relative,omitempty"`
	Timestamp *uint32 `yaml:"timestamp,omitempty" toml:"timestamp,omitempty"`
	Target    string  `yaml:"target,omitempty" toml:"target,omitempty"`
	Source    string  `yaml:"source,omitempty" toml:"source,omitempty"`
	Op        string  `yaml:"op,omitempty" toml:"op,omitempty"`
	Len       uint16  `yaml:"len" toml:"len"`
	Data      string  `yaml:"data,omitempty" toml:"data,omitempty"`
	Text      string  `yaml:"text,omitempty" toml:"text,omitempty"`
	Error     string  `yaml:"error,omitempty" toml:"error,omitempty"`
}

// Disassembler 二进制记录 -> 汇编文本
type Disassembler struct {
	codec   ucg.Codec
	opts    Options
	logger  *zap.Logger
	metrics *metrics.CodecMetrics
}

// New 创建反汇编器；logger 与 m 可以为 nil
func New(codec ucg.Codec, opts Options, logger *zap.Logger, m *metrics.CodecMetrics) *Disassembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Format == "" {
		opts.Format = FormatAsm
	}
	return &Disassembler{codec: codec, opts: opts, logger: logger, metrics: m}
}

// Run 逐条解码 rr 中的记录并写出文本
func (d *Disassembler) Run(ctx context.Context, rr framing.RecordReader, w io.Writer) (Stats, error) {
	var st Stats
	bw := bufio.NewWriter(w)
	out, err := d.newSink(bw)
	if err != nil {
		return st, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		rec, rerr := rr.Next()
		if errors.Is(rerr, io.EOF) {
			break
		}
		var frErr *framing.RecordError
		truncated := errors.Is(rerr, framing.ErrTruncatedRecord)
		if rerr != nil && !truncated && !errors.As(rerr, &frErr) {
			return st, fmt.Errorf("read record: %w", rerr)
		}
		st.Records++
		if truncated {
			d.logger.Warn("trailing bytes shorter than declared length", zap.Int("record", st.Records), zap.Int("bytes", len(rec)))
		}

		var msg ucg.Message
		derr := rerr
		if frErr == nil {
			msg, derr = d.codec.Decode(rec)
		}
		if derr != nil {
			st.Errors++
			d.count(metrics.ResultError)
			recErr := &RecordError{Index: st.Records, Raw: rec, Err: derr}
			d.logger.Warn("disassemble failed",
				zap.Int("record", st.Records),
				zap.String("raw", upperHex(rec)),
				zap.Error(derr),
			)
			if err := out.failure(st.Records, rec, derr); err != nil {
				return st, err
			}
			if d.opts.StopOnError {
				_ = out.close()
				_ = bw.Flush()
				return st, recErr
			}
			continue
		}

		st.Disassembled++
		d.count(metrics.ResultOK)
		if d.metrics != nil {
			d.metrics.OpcodeTotal.WithLabelValues(ucg.FrameOf(msg).Op.String()).Inc()
		}
		if err := out.message(st.Records, rec, msg, d.opts.PrintDecimal); err != nil {
			return st, err
		}
	}
	if err := out.close(); err != nil {
		return st, err
	}
	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("flush: %w", err)
	}
	d.logger.Debug("disassemble done",
		zap.Int("records", st.Records),
		zap.Int("disassembled", st.Disassembled),
		zap.Int("errors", st.Errors),
	)
	return st, nil
}

func (d *Disassembler) count(result string) {
	if d.metrics == nil {
		return
	}
	d.metrics.RecordsTotal.WithLabelValues(string(d.codec.Mode()), result).Inc()
}
