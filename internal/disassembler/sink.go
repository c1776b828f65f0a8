package disassembler

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/taoyao-code/ucgas/internal/protocol/ucg"
)

// sink 反汇编结果的输出方式
type sink interface {
	message(index int, raw []byte, msg ucg.Message, printDecimal bool) error
	failure(index int, raw []byte, err error) error
	close() error
}

func (d *Disassembler) newSink(w io.Writer) (sink, error) {
	switch d.opts.Format {
	case FormatAsm:
		return &asmSink{w: w}, nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &yamlSink{enc: enc}, nil
	case FormatTOML:
		return &tomlSink{w: w}, nil
	default:
		return nil, fmt.Errorf("disassembler: unknown output format %q", d.opts.Format)
	}
}

// asmSink 每条记录一行汇编文本；失败的记录不输出
type asmSink struct {
	w io.Writer
}

func (s *asmSink) message(_ int, _ []byte, msg ucg.Message, printDecimal bool) error {
	if _, err := io.WriteString(s.w, msg.FormatText(printDecimal)+"\n"); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

func (s *asmSink) failure(int, []byte, error) error { return nil }

func (s *asmSink) close() error { return nil }

// yamlSink 每条记录一个 YAML 文档
type yamlSink struct {
	enc *yaml.Encoder
}

func (s *yamlSink) message(index int, raw []byte, msg ucg.Message, printDecimal bool) error {
	return s.encode(newEntry(index, raw, msg, printDecimal))
}

func newEntry(index int, raw []byte, msg ucg.Message, printDecimal bool) Entry {
	e := Entry{Index: index, Raw: upperHex(raw), Text: msg.FormatText(printDecimal)}
	if sm, ok := msg.(*ucg.ScriptedMessage); ok {
		rel, ts := sm.Relative, sm.Timestamp
		e.Relative, e.Timestamp = &rel, &ts
	}
	f := ucg.FrameOf(msg)
	e.Target = fmt.Sprintf("%02X/%1X", f.Target, f.Subtarget)
	e.Source = fmt.Sprintf("%02X/%1X", f.Source, f.Subsource)
	e.Op = f.Op.String()
	e.Len = f.Len
	e.Data = upperHex(f.Data)
	return e
}

func (s *yamlSink) failure(index int, raw []byte, err error) error {
	return s.encode(Entry{Index: index, Raw: upperHex(raw), Error: err.Error()})
}

func (s *yamlSink) encode(e Entry) error {
	if err := s.enc.Encode(e); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

func (s *yamlSink) close() error { return s.enc.Close() }

// tomlListing TOML 不支持多文档，整份清单在结束时以 [[record]] 数组写出
type tomlListing struct {
	Records []Entry `toml:"record"`
}

type tomlSink struct {
	w       io.Writer
	listing tomlListing
}

func (s *tomlSink) message(index int, raw []byte, msg ucg.Message, printDecimal bool) error {
	s.listing.Records = append(s.listing.Records, newEntry(index, raw, msg, printDecimal))
	return nil
}

func (s *tomlSink) failure(index int, raw []byte, err error) error {
	s.listing.Records = append(s.listing.Records, Entry{Index: index, Raw: upperHex(raw), Error: err.Error()})
	return nil
}

func (s *tomlSink) close() error {
	if err := toml.NewEncoder(s.w).Encode(s.listing); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

func upperHex(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) }
