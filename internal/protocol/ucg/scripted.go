package ucg

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	// TimestampLen 脚本消息时间戳字长
	TimestampLen = 4
	// MaxTimestamp 时间戳取值上限（最高位保留给相对/绝对标志）
	MaxTimestamp = 0x7FFFFFFF

	relativeFlag   = 0x80000000
	relativePrefix = "+"
)

// ScriptedMessage 带时间戳的脚本消息，独占其内部 Frame
type ScriptedMessage struct {
	Relative  bool
	Timestamp uint32
	Frame     Frame
}

// DecodeScripted 解析 ts_u32_le + 即时帧
func DecodeScripted(b []byte) (*ScriptedMessage, error) {
	if len(b) < TimestampLen {
		return nil, ErrShortScripted
	}
	word := binary.LittleEndian.Uint32(b[:TimestampLen])
	f, err := DecodeFrame(b[TimestampLen:])
	if err != nil {
		return nil, err
	}
	return &ScriptedMessage{
		Relative:  word&relativeFlag != 0,
		Timestamp: word &^ relativeFlag,
		Frame:     *f,
	}, nil
}

// Encode 编码为二进制：相对时间戳最高位置 1
func (m *ScriptedMessage) Encode() []byte {
	word := m.Timestamp &^ relativeFlag
	if m.Relative {
		word |= relativeFlag
	}
	out := binary.LittleEndian.AppendUint32(make([]byte, 0, TimestampLen+HeaderLen+len(m.Frame.Data)), word)
	return append(out, m.Frame.Encode()...)
}

// FormatText 在帧文本前加上 "+<ts>s " 或 "ABSOLUTE "
func (m *ScriptedMessage) FormatText(printDecimal bool) string {
	prefix := "ABSOLUTE "
	if m.Relative {
		prefix = fmt.Sprintf("+%ds ", m.Timestamp)
	}
	return prefix + m.Frame.FormatText(printDecimal)
}

// ParseScriptedText 解析一行脚本模式汇编文本：时间戳 + 即时帧。
// 绝对时间戳可以识别但尚未实现，始终返回 ErrAbsoluteTimestamp。
func ParseScriptedText(line string, emitComments bool) (*ScriptedMessage, error) {
	upper := strings.ToUpper(line)
	tokens := strings.Fields(upper)
	if err := commentSignal(upper, tokens, emitComments); err != nil {
		return nil, err
	}

	ts := tokens[0]
	switch {
	case strings.HasPrefix(ts, relativePrefix):
		// 处理在下面
	case isDecimal(ts):
		return nil, parseErr("timestamp", ts, ErrAbsoluteTimestamp)
	default:
		return nil, parseErr("timestamp", ts, ErrBadTimestamp)
	}

	digits := strings.TrimPrefix(ts, relativePrefix)
	if !isDecimal(digits) {
		return nil, parseErr("timestamp", ts, ErrBadTimestamp)
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || n > MaxTimestamp {
		return nil, parseErr("timestamp", ts, ErrTimestampTooLarge)
	}

	rest := tokens[1:]
	if len(rest) == 0 {
		return nil, parseErr("target", "", ErrMissingField)
	}
	f, err := ParseFrameText(strings.Join(rest, " "), emitComments)
	if err != nil {
		return nil, err
	}
	return &ScriptedMessage{Relative: true, Timestamp: uint32(n), Frame: *f}, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
