package ucg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  []byte
	}{
		{"十进制单字节", "D10", []byte{0x0A}},
		{"十进制边界255", "D255", []byte{0xFF, 0x00}},
		{"十进制两字节", "D10000", []byte{0x10, 0x27}},
		{"十进制负数", "D-2", []byte{0xFE}},
		{"十进制显式正号", "D+7", []byte{0x07}},
		{"十进制八字节", "D4294967296", []byte{0, 0, 0, 0, 1, 0, 0, 0}},
		{"十进制大值截断为八字节", "D18446744073709551616", []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"单精度", "F202.5", []byte{0x00, 0x80, 0x4A, 0x43}},
		{"单精度溢出为无穷", "F1E50", []byte{0x00, 0x00, 0x80, 0x7F}},
		{"双精度", "L-2", []byte{0, 0, 0, 0, 0, 0, 0, 0xC0}},
		{"双精度前导零", "L01.5", []byte{0, 0, 0, 0, 0, 0, 0xF8, 0x3F}},
		{"字符串", "CHELLO", []byte("HELLO")},
		{"空字符串", "C", nil},
		{"十六进制", "0A", []byte{0x0A}},
		{"十六进制两字节", "1234", []byte{0x34, 0x12}},
		{"十六进制大值取八字节", "0FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"十六进制最高位为1按负数处理", "9FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLiteral(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLiteral_Errors(t *testing.T) {
	tests := []struct {
		token string
		want  error
	}{
		{"D", ErrMalformedLiteral},
		{"D1.5", ErrMalformedLiteral},
		{"D170141183460469231731687303715884105728", ErrMalformedLiteral},
		{"F", ErrMalformedLiteral},
		{"FF", ErrMalformedLiteral},
		{"LABC", ErrMalformedLiteral},
		{"F0X1P4", ErrMalformedLiteral},
		{"L-0X1P-2", ErrMalformedLiteral},
		{"F0X_1P4", ErrMalformedLiteral},
		{"L1_000", ErrMalformedLiteral},
		{"-1", ErrMalformedLiteral},
		{"0G", ErrMalformedLiteral},
		{"100000000000000000000000000000000", ErrLiteralTooLarge},
	}
	for _, tt := range tests {
		_, err := ParseLiteral(tt.token)
		assert.ErrorIs(t, err, tt.want, tt.token)
		var pe *ParseError
		if assert.ErrorAs(t, err, &pe, tt.token) {
			assert.Equal(t, tt.token, pe.Token)
			assert.Equal(t, "data", pe.Field)
		}
	}
}
