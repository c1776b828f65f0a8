package framing

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// RecordWriter 按分帧方式写出二进制记录
type RecordWriter interface {
	WriteRecord(rec []byte) error
	Flush() error
	// Written 返回已写出的字节数（含分隔符）
	Written() int64
}

// NewWriter 按分帧方式包装 w
func NewWriter(w io.Writer, kind Kind, delim byte) (RecordWriter, error) {
	bw := bufio.NewWriter(w)
	switch kind {
	case KindDelimiter, KindLength, KindHex:
		return &recordWriter{w: bw, kind: kind, delim: delim}, nil
	default:
		return nil, fmt.Errorf("framing: unknown framing %q", kind)
	}
}

type recordWriter struct {
	w       *bufio.Writer
	kind    Kind
	delim   byte
	written int64
}

func (rw *recordWriter) WriteRecord(rec []byte) error {
	var n int
	var err error
	switch rw.kind {
	case KindHex:
		n, err = rw.w.WriteString(strings.ToUpper(hex.EncodeToString(rec)) + "\n")
	case KindDelimiter:
		if n, err = rw.w.Write(rec); err == nil {
			err = rw.w.WriteByte(rw.delim)
			if err == nil {
				n++
			}
		}
	default:
		n, err = rw.w.Write(rec)
	}
	rw.written += int64(n)
	return err
}

func (rw *recordWriter) Flush() error { return rw.w.Flush() }

func (rw *recordWriter) Written() int64 { return rw.written }
