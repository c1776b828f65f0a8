package assembler

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

const (
	prompt       = "rgas> "
	maxLineBytes = 1 << 20
)

// ErrShortPayload 按声明长度分帧时，数据字节必须与声明长度一致
var ErrShortPayload = errors.New("data shorter than declared length, required by length framing")

// Options 汇编器配置
type Options struct {
	EmitComments bool      // 回显注释行（-v）
	StopOnError  bool      // 批处理模式下遇到第一条错误即中止
	Interactive  bool      // 交互模式：打印提示符，错误不中止
	Console      io.Writer // 交互模式下提示符与错误的输出位置
	FullPayload  bool      // 要求 len(Data) == Len（length 分帧的读端按 Len 切分记录）
}

// Stats 一次运行的统计
type Stats struct {
	Lines     int   `json:"lines"`
	Assembled int   `json:"assembled"`
	Comments  int   `json:"comments"`
	Errors    int   `json:"errors"`
	Bytes     int64 `json:"bytes"`
}

// LineError 某一行汇编失败
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// Assembler 汇编文本 -> 二进制记录
type Assembler struct {
	codec   ucg.Codec
	opts    Options
	logger  *zap.Logger
	metrics *metrics.CodecMetrics
}

// New 创建汇编器；logger 与 m 可以为 nil
func New(codec ucg.Codec, opts Options, logger *zap.Logger, m *metrics.CodecMetrics) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}
	return &Assembler{codec: codec, opts: opts, logger: logger, metrics: m}
}

// Run 逐行汇编 r 中的文本并写出到 w。
// 批处理模式下 StopOnError 为真时返回第一条 *LineError，否则记录错误后继续。
func (a *Assembler) Run(ctx context.Context, r io.Reader, w framing.RecordWriter) (Stats, error) {
	var st Stats
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if a.opts.Interactive {
			fmt.Fprint(a.opts.Console, prompt)
		}
		if !sc.Scan() {
			break
		}
		st.Lines++
		line := sc.Text()

		msg, err := a.codec.ParseText(line, a.opts.EmitComments)
		if err == nil && a.opts.FullPayload {
			if f := ucg.FrameOf(msg); len(f.Data) != int(f.Len) {
				err = fmt.Errorf("%w: %d of %d bytes", ErrShortPayload, len(f.Data), f.Len)
			}
		}
		if text, ok := ucg.IsComment(err); ok {
			st.Comments++
			a.count(metrics.ResultComment)
			if text != "" {
				a.logger.Info("comment", zap.Int("line", st.Lines), zap.String("text", text))
				if a.opts.Interactive {
					fmt.Fprintln(a.opts.Console, text)
				}
			}
			continue
		}
		if err != nil {
			st.Errors++
			a.count(metrics.ResultError)
			lerr := &LineError{Line: st.Lines, Text: line, Err: err}
			a.logger.Warn("assemble failed",
				zap.Int("line", st.Lines),
				zap.String("text", line),
				zap.Error(err),
			)
			if a.opts.Interactive {
				fmt.Fprintf(a.opts.Console, "[!] %v\n", err)
				continue
			}
			if a.opts.StopOnError {
				_ = w.Flush()
				st.Bytes = w.Written()
				return st, lerr
			}
			continue
		}

		if err := w.WriteRecord(msg.Encode()); err != nil {
			return st, fmt.Errorf("write record: %w", err)
		}
		st.Assembled++
		a.count(metrics.ResultOK)
		if a.metrics != nil {
			a.metrics.OpcodeTotal.WithLabelValues(ucg.FrameOf(msg).Op.String()).Inc()
		}
		if a.opts.Interactive {
			if err := w.Flush(); err != nil {
				return st, fmt.Errorf("flush: %w", err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read input: %w", err)
	}
	if err := w.Flush(); err != nil {
		return st, fmt.Errorf("flush: %w", err)
	}
	st.Bytes = w.Written()
	if a.metrics != nil {
		a.metrics.BytesOut.Add(float64(st.Bytes))
	}
	a.logger.Debug("assemble done",
		zap.Int("lines", st.Lines),
		zap.Int("assembled", st.Assembled),
		zap.Int("comments", st.Comments),
		zap.Int("errors", st.Errors),
		zap.Int64("bytes", st.Bytes),
	)
	return st, nil
}

func (a *Assembler) count(result string) {
	if a.metrics == nil {
		return
	}
	a.metrics.LinesTotal.WithLabelValues(string(a.codec.Mode()), result).Inc()
}
