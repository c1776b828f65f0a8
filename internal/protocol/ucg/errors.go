package ucg

import (
	"errors"
	"fmt"
)

// 二进制解码错误：不返回任何部分帧
var (
	ErrShortFrame    = errors.New("ucg: short frame header")
	ErrInvalidOpcode = errors.New("ucg: opcode out of range")
	ErrShortScripted = errors.New("ucg: short scripted timestamp")
)

// 文本解析错误（通过 *ParseError 包装）
var (
	ErrMissingField      = errors.New("missing field")
	ErrBadAddress        = errors.New("invalid address syntax")
	ErrUnknownOpcode     = errors.New("invalid opcode")
	ErrBadLength         = errors.New("invalid length specifier")
	ErrLengthTooLarge    = errors.New("payload length too large")
	ErrMalformedLiteral  = errors.New("malformed data argument")
	ErrLiteralTooLarge   = errors.New("integer argument too large")
	ErrDataOverflow      = errors.New("data arguments exceed payload length")
	ErrBadTimestamp      = errors.New("invalid timestamp, use immediate mode for untimed messages")
	ErrAbsoluteTimestamp = errors.New("absolute timestamps unsupported")
	ErrTimestampTooLarge = errors.New("timestamp too large")
)

// ParseError 汇编文本解析错误，携带出错字段与原始记号
type ParseError struct {
	Field string // target / source / opcode / length / data / timestamp
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(field, token string, err error) *ParseError {
	return &ParseError{Field: field, Token: token, Err: err}
}

// CommentError 注释行信号，不是真正的解析失败。
// Text 为空表示静默跳过；emitComments 打开时 Text 为大写后的整行。
type CommentError struct {
	Text string
}

func (e *CommentError) Error() string { return e.Text }

// IsComment 判断 err 是否为注释/空行信号，并返回需要回显的文本（可能为空）
func IsComment(err error) (string, bool) {
	var ce *CommentError
	if errors.As(err, &ce) {
		return ce.Text, true
	}
	return "", false
}
