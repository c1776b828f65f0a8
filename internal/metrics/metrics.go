package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// 结果标签取值
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultComment = "comment"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// CodecMetrics 汇编/反汇编业务指标
type CodecMetrics struct {
	LinesTotal   *prometheus.CounterVec // labels: mode, result=ok|error|comment
	RecordsTotal *prometheus.CounterVec // labels: mode, result=ok|error
	OpcodeTotal  *prometheus.CounterVec // labels: op
	BytesOut     prometheus.Counter
}

// NewCodecMetrics 注册并返回业务指标
func NewCodecMetrics(reg prometheus.Registerer) *CodecMetrics {
	m := &CodecMetrics{
		LinesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ucg_asm_lines_total",
			Help: "Assembly text lines processed.",
		}, []string{"mode", "result"}),
		RecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ucg_binary_records_total",
			Help: "Binary records processed.",
		}, []string{"mode", "result"}),
		OpcodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ucg_opcode_total",
			Help: "Messages handled by opcode mnemonic.",
		}, []string{"op"}),
		BytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ucg_output_bytes_total",
			Help: "Total bytes written to the output stream.",
		}),
	}
	reg.MustRegister(m.LinesTotal, m.RecordsTotal, m.OpcodeTotal, m.BytesOut)
	return m
}

// WriteTextfile 以 node_exporter textfile 格式写出指标；path 为空时不写
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, g)
}
