package ucg

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// HeaderLen 即时帧头长度
	HeaderLen = 4
	// MaxLen 声明载荷长度上限（11 位，文本解析要求 < 0x7FF）
	MaxLen = 0x7FE

	commentPrefix = "#"
)

// Frame UCG 即时消息帧
// 布局：T/ST(1) | S/SS(1) | OP/LEN高3位(1) | LEN低8位(1) | data(...)
//
// Len 为声明的载荷长度；文本汇编时允许 Data 少于 Len，但不能多于 Len。
type Frame struct {
	Target    uint8
	Subtarget uint8
	Source    uint8
	Subsource uint8
	Op        Opcode
	Len       uint16
	Data      []byte
}

// DecodeFrame 从字节缓冲解析即时帧。
// 帧头之后的全部字节原样作为 Data，不按 Len 截断。
func DecodeFrame(b []byte) (*Frame, error) {
	if len(b) < HeaderLen {
		return nil, ErrShortFrame
	}
	f := &Frame{}
	f.Target, f.Subtarget = UnpackAddress(b[0])
	f.Source, f.Subsource = UnpackAddress(b[1])
	op, lenHigh := UnpackAddress(b[2])
	if !Opcode(op).Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOpcode, op)
	}
	f.Op = Opcode(op)
	f.Len = uint16(b[3]) | uint16(lenHigh)<<8
	if rest := b[HeaderLen:]; len(rest) > 0 {
		f.Data = append([]byte(nil), rest...)
	}
	return f, nil
}

// Encode 编码为二进制帧
func (f *Frame) Encode() []byte {
	out := make([]byte, 0, HeaderLen+len(f.Data))
	out = append(out,
		PackAddress(f.Target, f.Subtarget),
		PackAddress(f.Source, f.Subsource),
		PackAddress(uint8(f.Op), uint8(f.Len>>8)&subMask),
		uint8(f.Len),
	)
	return append(out, f.Data...)
}

// FormatText 格式化为一行汇编文本。
// 首个数据字节通常是寄存器或子程序编号，单独打印；(Len-1) 为偶数时其余字节按小端 16 位分组，否则逐字节打印。
func (f *Frame) FormatText(printDecimal bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%02X/%1X %02X/%1X %s %03d",
		f.Target, f.Subtarget, f.Source, f.Subsource, f.Op, f.Len)
	if f.Len == 0 || len(f.Data) == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, " %02X", f.Data[0])
	rest := f.Data[1:]
	if (f.Len-1)%2 == 0 {
		for ; len(rest) >= 2; rest = rest[2:] {
			word := uint16(rest[0]) | uint16(rest[1])<<8
			if printDecimal {
				fmt.Fprintf(&sb, " D%d", word)
			} else {
				fmt.Fprintf(&sb, " %04X", word)
			}
		}
	}
	// 奇数分组，或偶数分组下数据不足时剩下的单字节
	for _, b := range rest {
		if printDecimal {
			fmt.Fprintf(&sb, " D%d", b)
		} else {
			fmt.Fprintf(&sb, " %02X", b)
		}
	}
	return sb.String()
}

// ParseFrameText 解析一行即时模式汇编文本。
// 注释行与空行返回 *CommentError；其余失败返回 *ParseError。
func ParseFrameText(line string, emitComments bool) (*Frame, error) {
	upper := strings.ToUpper(line)
	tokens := strings.Fields(upper)
	if err := commentSignal(upper, tokens, emitComments); err != nil {
		return nil, err
	}
	return parseFrameTokens(tokens)
}

func commentSignal(upper string, tokens []string, emitComments bool) error {
	if len(tokens) == 0 {
		return &CommentError{}
	}
	if !strings.HasPrefix(tokens[0], commentPrefix) {
		return nil
	}
	if emitComments {
		return &CommentError{Text: upper}
	}
	return &CommentError{}
}

func parseFrameTokens(tokens []string) (*Frame, error) {
	f := &Frame{}
	var err error

	if len(tokens) < 1 {
		return nil, parseErr("target", "", ErrMissingField)
	}
	if f.Target, f.Subtarget, err = parseAddressToken("target", tokens[0]); err != nil {
		return nil, err
	}

	if len(tokens) < 2 {
		return nil, parseErr("source", "", ErrMissingField)
	}
	if f.Source, f.Subsource, err = parseAddressToken("source", tokens[1]); err != nil {
		return nil, err
	}

	if len(tokens) < 3 {
		return nil, parseErr("opcode", "", ErrMissingField)
	}
	op, ok := OpcodeOf(tokens[2])
	if !ok {
		return nil, parseErr("opcode", tokens[2], ErrUnknownOpcode)
	}
	f.Op = op

	if len(tokens) < 4 {
		return nil, parseErr("length", "", ErrMissingField)
	}
	n, perr := strconv.ParseUint(tokens[3], 10, 16)
	if perr != nil {
		return nil, parseErr("length", tokens[3], ErrBadLength)
	}
	if n > MaxLen {
		return nil, parseErr("length", tokens[3], ErrLengthTooLarge)
	}
	f.Len = uint16(n)

	for _, tok := range tokens[4:] {
		if f.Data, err = AppendLiteral(f.Data, tok); err != nil {
			return nil, err
		}
	}
	if len(f.Data) > int(f.Len) {
		return nil, &ParseError{
			Field: "data",
			Err:   fmt.Errorf("%w: %d > %d", ErrDataOverflow, len(f.Data), f.Len),
		}
	}
	return f, nil
}

func parseAddressToken(field, tok string) (uint8, uint8, error) {
	if len(tok) < 3 || len(tok) > 4 || !strings.Contains(tok, "/") {
		return 0, 0, parseErr(field, tok, ErrBadAddress)
	}
	main, sub, ok := AddressFromText(tok)
	if !ok {
		return 0, 0, parseErr(field, tok, ErrBadAddress)
	}
	return main, sub, nil
}
