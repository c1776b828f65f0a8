// Package framing 负责二进制记录在字节流中的边界划分。
// 编解码器本身不做任何 I/O，记录如何分隔由这里按配置决定：
//   - delimiter：每条记录后跟一个分隔字节（默认 '\n'）；记录数据中不能出现该字节
//   - length：按帧头声明长度自定界
//   - hex：每行一条十六进制字符串
package framing

import (
	"errors"
	"fmt"
	"strings"
)

// Kind 分帧方式
type Kind string

const (
	KindDelimiter Kind = "delimiter"
	KindLength    Kind = "length"
	KindHex       Kind = "hex"
)

// DefaultDelimiter 默认记录分隔字节
const DefaultDelimiter byte = '\n'

var ErrTruncatedRecord = errors.New("framing: truncated record at end of stream")

// ParseKind 解析分帧方式名
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDelimiter, KindLength, KindHex:
		return k, nil
	case "":
		return KindDelimiter, nil
	default:
		return "", fmt.Errorf("framing: unknown framing %q", s)
	}
}

// Splitter 根据已到达的字节给出一条完整记录的长度，ucg.Codec 实现了该接口
type Splitter interface {
	RecordLen(b []byte) (n int, ok bool)
}

// RecordError 单条记录无法还原（例如十六进制行非法），流本身仍可继续读取
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string { return fmt.Sprintf("record %d: %v", e.Index, e.Err) }

func (e *RecordError) Unwrap() error { return e.Err }
