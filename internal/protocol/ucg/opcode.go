package ucg

import "fmt"

// Opcode UCG 命令码
type Opcode uint8

const (
	OpNOP  Opcode = 0
	OpRQRY Opcode = 1
	OpSQST Opcode = 2
	OpSVAL Opcode = 3
	OpRTYP Opcode = 4
	OpRVAL Opcode = 5
	OpRWRT Opcode = 6
	OpRRTC Opcode = 7
	OpSRUN Opcode = 8
	OpSTAT Opcode = 9
	OpSTOP Opcode = 10
	OpSRET Opcode = 11
	OpMACK Opcode = 12
	OpOPOK Opcode = 13
	OpFAIL Opcode = 14
	OpNSUP Opcode = 15
	OpDERR Opcode = 16
	OpDDIE Opcode = 17
	OpREDY Opcode = 18

	// MaxOpcode 最大合法命令码
	MaxOpcode = OpREDY
)

var opcodeNames = [MaxOpcode + 1]string{
	"NOP",
	"RQRY",
	"SQST",
	"SVAL",
	"RTYP",
	"RVAL",
	"RWRT",
	"RRTC",
	"SRUN",
	"STAT",
	"STOP",
	"SRET",
	"MACK",
	"OPOK",
	"FAIL",
	"NSUP",
	"DERR",
	"DDIE",
	"REDY",
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for i, name := range opcodeNames {
		m[name] = Opcode(i)
	}
	return m
}()

// Valid 是否在 [0, MaxOpcode] 范围内
func (op Opcode) Valid() bool { return op <= MaxOpcode }

// String 返回助记符。调用方应先校验 Valid；越界时返回 OP(0xNN) 而不是 panic。
func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("OP(0x%02X)", uint8(op))
	}
	return opcodeNames[op]
}

// OpcodeOf 按助记符精确查找（区分大小写）
func OpcodeOf(text string) (Opcode, bool) {
	op, ok := opcodeByName[text]
	return op, ok
}

// Mnemonics 按命令码顺序返回全部助记符
func Mnemonics() []string {
	out := make([]string, len(opcodeNames))
	copy(out, opcodeNames[:])
	return out
}
