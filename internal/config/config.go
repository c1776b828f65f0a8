package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// 消息模式
const (
	ModeImmediate = "immediate"
	ModeScripted  = "scripted"
)

// 记录分帧方式
const (
	FramingDelimiter = "delimiter"
	FramingLength    = "length"
	FramingHex       = "hex"
)

// 反汇编输出格式
const (
	FormatAsm  = "asm"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
}

// CodecConfig 编解码行为
type CodecConfig struct {
	Mode         string `mapstructure:"mode"`
	PrintDecimal bool   `mapstructure:"printDecimal"`
	EmitComments bool   `mapstructure:"emitComments"`
}

// IOConfig 输入输出与二进制记录分帧
type IOConfig struct {
	Input     string `mapstructure:"input"`
	Output    string `mapstructure:"output"`
	Framing   string `mapstructure:"framing"`
	Delimiter uint8  `mapstructure:"delimiter"`
}

// RunConfig 批处理行为
type RunConfig struct {
	StopOnError bool `mapstructure:"stopOnError"`
	Interactive bool `mapstructure:"interactive"`
}

// OutputConfig 反汇编输出配置
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 文本文件导出配置（为空则不写）
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Config 顶层配置结构
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Codec   CodecConfig   `mapstructure:"codec"`
	IO      IOConfig      `mapstructure:"io"`
	Run     RunConfig     `mapstructure:"run"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Load 从 YAML/TOML/JSON 文件、环境变量与命令行参数加载配置。
// 若 path 为空，则尝试从环境变量 UCG_CONFIG 读取；仍为空时只使用默认值。
// flags 中的参数名通过 FlagKeys 映射到配置键，只有显式设置的参数会覆盖文件与环境变量。
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 默认值
	setDefaults(v)

	// 环境变量覆盖：前缀 UCG_，并将点号替换为下划线
	v.SetEnvPrefix("UCG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FlagKeys 命令行参数名 -> 配置键
var FlagKeys = map[string]string{
	"mode":          "codec.mode",
	"decimal":       "codec.printDecimal",
	"verbose":       "codec.emitComments",
	"infile":        "io.input",
	"outfile":       "io.output",
	"framing":       "io.framing",
	"delimiter":     "io.delimiter",
	"stop-on-error": "run.stopOnError",
	"interactive":   "run.interactive",
	"format":        "output.format",
	"log-level":     "logging.level",
	"metrics-file":  "metrics.textfile",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ucgas")

	v.SetDefault("codec.mode", ModeImmediate)
	v.SetDefault("codec.printDecimal", false)
	v.SetDefault("codec.emitComments", false)

	v.SetDefault("io.input", "")
	v.SetDefault("io.output", "")
	v.SetDefault("io.framing", FramingDelimiter)
	v.SetDefault("io.delimiter", '\n')

	v.SetDefault("run.stopOnError", false)
	v.SetDefault("run.interactive", false)

	v.SetDefault("output.format", FormatAsm)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.textfile", "")
}

// Validate 校验并规范化枚举类配置项（大小写、首尾空白不敏感）
func (c *Config) Validate() error {
	var errs []error
	c.Codec.Mode = normalize(c.Codec.Mode)
	switch c.Codec.Mode {
	case ModeImmediate, ModeScripted:
	default:
		errs = append(errs, fmt.Errorf("codec.mode: unknown mode %q", c.Codec.Mode))
	}
	c.IO.Framing = normalize(c.IO.Framing)
	switch c.IO.Framing {
	case FramingDelimiter, FramingLength, FramingHex:
	default:
		errs = append(errs, fmt.Errorf("io.framing: unknown framing %q", c.IO.Framing))
	}
	c.Output.Format = normalize(c.Output.Format)
	switch c.Output.Format {
	case FormatAsm, FormatYAML, FormatTOML:
	default:
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	return errors.Join(errs...)
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
