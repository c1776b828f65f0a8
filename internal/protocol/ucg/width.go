package ucg

import (
	"math"
	"math/big"
)

// 字面量取值范围为有符号 128 位：[-2^127, 2^127-1]
var (
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

	maxUint32 = new(big.Int).SetUint64(math.MaxUint32)
)

func inInt128(v *big.Int) bool {
	return v.Cmp(minInt128) >= 0 && v.Cmp(maxInt128) <= 0
}

// asInt128 将 u128 按位重解释为 i128（>= 2^127 的值变为负数）
func asInt128(u *big.Int) *big.Int {
	if u.Cmp(maxInt128) > 0 {
		return new(big.Int).Sub(u, two128)
	}
	return u
}

// MinimalWidth 返回 {1,2,4,8} 中能容纳 v 的最小字节数。
// 边界使用严格比较：255 选 2 字节，-128 选 2 字节，与既有汇编输出保持一致。
func MinimalWidth(v *big.Int) int {
	if v.Sign() < 0 {
		if !v.IsInt64() {
			return 8
		}
		n := v.Int64()
		switch {
		case n > math.MinInt8 && n < math.MaxInt8:
			return 1
		case n > math.MinInt16 && n < math.MaxInt16:
			return 2
		case n > math.MinInt32 && n < math.MaxInt32:
			return 4
		default:
			return 8
		}
	}
	if v.Cmp(maxUint32) >= 0 {
		return 8
	}
	n := v.Uint64()
	switch {
	case n < math.MaxUint8:
		return 1
	case n < math.MaxUint16:
		return 2
	default:
		return 4
	}
}

// LittleEndian 取 v 的 128 位补码小端表示的前 width 个字节
func LittleEndian(v *big.Int, width int) []byte {
	u := new(big.Int).Mod(v, two128)
	var be [16]byte
	u.FillBytes(be[:])
	out := make([]byte, width)
	for i := 0; i < width && i < len(be); i++ {
		out[i] = be[len(be)-1-i]
	}
	return out
}
