package ucg

import (
	"encoding/binary"
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// 数据字面量前缀
const (
	prefixDecimal = 'D'
	prefixFloat   = 'F'
	prefixDouble  = 'L'
	prefixString  = 'C'

	maxHexDigits = 32
)

// ParseLiteral 将一个数据记号编码为小端字节序列
func ParseLiteral(token string) ([]byte, error) {
	return AppendLiteral(nil, token)
}

// AppendLiteral 解析 token 并把编码结果追加到 dst
func AppendLiteral(dst []byte, token string) ([]byte, error) {
	if token == "" {
		return dst, parseErr("data", token, ErrMalformedLiteral)
	}
	body := token[1:]
	switch token[0] {
	case prefixDecimal:
		v, ok := new(big.Int).SetString(body, 10)
		if !ok || !inInt128(v) {
			return dst, parseErr("data", token, ErrMalformedLiteral)
		}
		return append(dst, LittleEndian(v, MinimalWidth(v))...), nil
	case prefixFloat:
		f, err := parseFloat(body, 32)
		if err != nil {
			return dst, parseErr("data", token, ErrMalformedLiteral)
		}
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(f))), nil
	case prefixDouble:
		f, err := parseFloat(body, 64)
		if err != nil {
			return dst, parseErr("data", token, ErrMalformedLiteral)
		}
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f)), nil
	case prefixString:
		return append(dst, body...), nil
	default:
		if len(token) > maxHexDigits {
			return dst, parseErr("data", token, ErrLiteralTooLarge)
		}
		if strings.HasPrefix(token, "-") {
			return dst, parseErr("data", token, ErrMalformedLiteral)
		}
		u, ok := new(big.Int).SetString(token, 16)
		if !ok {
			return dst, parseErr("data", token, ErrMalformedLiteral)
		}
		v := asInt128(u)
		return append(dst, LittleEndian(v, MinimalWidth(v))...), nil
	}
}

// parseFloat 溢出时饱和为 ±Inf，不视为错误。
// 只接受十进制写法：strconv 额外支持的十六进制浮点（0X1P4）与下划线分隔一律拒绝。
func parseFloat(s string, bitSize int) (float64, error) {
	if strings.ContainsRune(s, '_') || hasHexPrefix(strings.TrimLeft(s, "+-")) {
		return 0, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, nil
		}
		return 0, err
	}
	return f, nil
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'X' || s[1] == 'x')
}
