package framing

// StreamDecoder 处理半包/粘包的流式切分器：按帧头声明长度切出完整记录
type StreamDecoder struct {
	buf   []byte
	split Splitter
}

// NewStreamDecoder 创建流式切分器
func NewStreamDecoder(split Splitter) *StreamDecoder {
	return &StreamDecoder{split: split}
}

// Feed 追加数据并尽可能切出多条记录，返回的切片不与内部缓冲共享内存
func (d *StreamDecoder) Feed(p []byte) [][]byte {
	d.buf = append(d.buf, p...)
	var out [][]byte
	for {
		n, ok := d.split.RecordLen(d.buf)
		if !ok || len(d.buf) < n {
			// 半包，等待更多
			return out
		}
		rec := make([]byte, n)
		copy(rec, d.buf[:n])
		out = append(out, rec)
		d.buf = d.buf[n:]
		if len(d.buf) == 0 {
			d.buf = nil
			return out
		}
	}
}

// Pending 返回缓冲中尚未组成完整记录的字节数
func (d *StreamDecoder) Pending() int { return len(d.buf) }

// Rest 取走缓冲中的残余字节
func (d *StreamDecoder) Rest() []byte {
	rest := d.buf
	d.buf = nil
	return rest
}
