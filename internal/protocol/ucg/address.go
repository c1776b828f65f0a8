package ucg

import (
	"strconv"
	"strings"
)

// 地址字节：高 5 位为主单元，低 3 位为子单元
const (
	mainMask = 0x1F
	subMask  = 0x07
)

// PackAddress 将 (main, sub) 压成一个字节，超出位宽的部分直接丢弃
func PackAddress(main, sub uint8) uint8 {
	return (main&mainMask)<<3 | sub&subMask
}

// UnpackAddress PackAddress 的逆运算
func UnpackAddress(b uint8) (main, sub uint8) {
	return (b >> 3) & mainMask, b & subMask
}

// AddressFromText 解析 "<hex>/<hex>" 形式的地址，不做范围裁剪
func AddressFromText(s string) (main, sub uint8, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	m, err := strconv.ParseUint(parts[0], 16, 8)
	if err != nil {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(parts[1], 16, 8)
	if err != nil {
		return 0, 0, false
	}
	return uint8(m), uint8(n), true
}
