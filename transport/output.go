package transport

// output is the outgoing buffer of a connection. It's soft-limited: encoders are told how much
// space is left, but terminators and the head itself are accepted regardless.
type output struct {
	buff  []byte
	limit int
	total int64
}

func newOutput(prealloc, limit int) output {
	return output{
		buff:  make([]byte, 0, prealloc),
		limit: limit,
	}
}

func (o *output) Free() int {
	return max(o.limit-len(o.buff), 0)
}

func (o *output) Append(b []byte) {
	o.buff = append(o.buff, b...)
	o.total += int64(len(b))
}

func (o *output) Len() int {
	return len(o.buff)
}

// consume drops first n bytes, moving the rest to the beginning.
func (o *output) consume(n int) {
	o.buff = o.buff[:copy(o.buff, o.buff[n:])]
}
