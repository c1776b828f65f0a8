package ucg

import (
	"fmt"
	"strings"
)

// Message 即时帧与脚本消息共同的输出契约
type Message interface {
	Encode() []byte
	FormatText(printDecimal bool) string
}

// Mode 消息种类
type Mode string

const (
	ModeImmediate Mode = "immediate"
	ModeScripted  Mode = "scripted"
)

// ParseMode 解析配置中的模式名（不区分大小写）
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeImmediate, "":
		return ModeImmediate, nil
	case ModeScripted:
		return ModeScripted, nil
	default:
		return "", fmt.Errorf("ucg: unknown mode %q", s)
	}
}

// Codec 某一消息种类的解码/解析入口
type Codec interface {
	Mode() Mode
	Decode(b []byte) (Message, error)
	ParseText(line string, emitComments bool) (Message, error)
	// RecordLen 根据已到达的字节判断一条完整记录的长度；字节不足以读出声明长度时返回 ok=false
	RecordLen(b []byte) (n int, ok bool)
}

// CodecFor 返回指定模式的编解码器
func CodecFor(mode Mode) (Codec, error) {
	switch mode {
	case ModeImmediate:
		return immediateCodec{}, nil
	case ModeScripted:
		return scriptedCodec{}, nil
	default:
		return nil, fmt.Errorf("ucg: unknown mode %q", mode)
	}
}

type immediateCodec struct{}

func (immediateCodec) Mode() Mode { return ModeImmediate }

func (immediateCodec) Decode(b []byte) (Message, error) {
	f, err := DecodeFrame(b)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (immediateCodec) ParseText(line string, emitComments bool) (Message, error) {
	f, err := ParseFrameText(line, emitComments)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (immediateCodec) RecordLen(b []byte) (int, bool) {
	return frameRecordLen(b)
}

type scriptedCodec struct{}

func (scriptedCodec) Mode() Mode { return ModeScripted }

func (scriptedCodec) Decode(b []byte) (Message, error) {
	m, err := DecodeScripted(b)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (scriptedCodec) ParseText(line string, emitComments bool) (Message, error) {
	m, err := ParseScriptedText(line, emitComments)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (scriptedCodec) RecordLen(b []byte) (int, bool) {
	if len(b) < TimestampLen {
		return 0, false
	}
	n, ok := frameRecordLen(b[TimestampLen:])
	if !ok {
		return 0, false
	}
	return TimestampLen + n, true
}

func frameRecordLen(b []byte) (int, bool) {
	if len(b) < HeaderLen {
		return 0, false
	}
	_, lenHigh := UnpackAddress(b[2])
	declared := int(b[3]) | int(lenHigh)<<8
	return HeaderLen + declared, true
}

// FrameOf 取出消息中的即时帧
func FrameOf(msg Message) *Frame {
	switch m := msg.(type) {
	case *Frame:
		return m
	case *ScriptedMessage:
		return &m.Frame
	default:
		return nil
	}
}
