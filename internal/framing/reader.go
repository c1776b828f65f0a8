package framing

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const readChunk = 4096

// RecordReader 逐条读取二进制记录，读完返回 io.EOF
type RecordReader interface {
	Next() ([]byte, error)
}

// NewReader 按分帧方式包装 r；length 方式需要 split 给出记录长度
func NewReader(r io.Reader, kind Kind, delim byte, split Splitter) (RecordReader, error) {
	switch kind {
	case KindDelimiter:
		return &delimReader{r: bufio.NewReader(r), delim: delim}, nil
	case KindLength:
		if split == nil {
			return nil, errors.New("framing: length framing needs a splitter")
		}
		return &lengthReader{r: r, dec: NewStreamDecoder(split)}, nil
	case KindHex:
		return &hexReader{sc: bufio.NewScanner(r)}, nil
	default:
		return nil, fmt.Errorf("framing: unknown framing %q", kind)
	}
}

type delimReader struct {
	r     *bufio.Reader
	delim byte
}

func (d *delimReader) Next() ([]byte, error) {
	for {
		line, err := d.r.ReadBytes(d.delim)
		if len(line) > 0 && line[len(line)-1] == d.delim && err == nil {
			line = line[:len(line)-1]
		}
		if len(line) > 0 {
			return line, nil
		}
		// 空记录（连续分隔符）直接跳过
		if err != nil {
			return nil, err
		}
	}
}

type lengthReader struct {
	r       io.Reader
	dec     *StreamDecoder
	pending [][]byte
	eof     bool
}

func (l *lengthReader) Next() ([]byte, error) {
	buf := make([]byte, readChunk)
	for len(l.pending) == 0 {
		if l.eof {
			if l.dec.Pending() > 0 {
				return l.dec.Rest(), ErrTruncatedRecord
			}
			return nil, io.EOF
		}
		n, err := l.r.Read(buf)
		if n > 0 {
			l.pending = append(l.pending, l.dec.Feed(buf[:n])...)
		}
		if errors.Is(err, io.EOF) {
			l.eof = true
		} else if err != nil {
			return nil, err
		}
	}
	rec := l.pending[0]
	l.pending = l.pending[1:]
	return rec, nil
}

type hexReader struct {
	sc    *bufio.Scanner
	index int
}

func (h *hexReader) Next() ([]byte, error) {
	for h.sc.Scan() {
		text := strings.Join(strings.Fields(h.sc.Text()), "")
		if text == "" {
			continue
		}
		h.index++
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, &RecordError{Index: h.index, Err: err}
		}
		return b, nil
	}
	if err := h.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// ReadAll 读出全部记录（测试与小文件场景）
func ReadAll(rr RecordReader) ([][]byte, error) {
	var out [][]byte
	for {
		rec, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, bytes.Clone(rec))
	}
}
