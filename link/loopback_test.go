package link

import (
	"sync"
	"time"
)

// byteQueue is an unbounded FIFO of bytes shared between a writer and a
// reader goroutine, standing in for the serial wire between two ports in
// tests. Reads honour the same "wait up to slice, then report nothing
// yet" contract as serial.Port.ReadByteWait.
type byteQueue struct {
	mu  sync.Mutex
	buf []byte
}

func (q *byteQueue) push(data []byte) {
	q.mu.Lock()
	q.buf = append(q.buf, data...)
	q.mu.Unlock()
}

func (q *byteQueue) waitByte(out *byte, slice time.Duration) (int, error) {
	deadline := time.Now().Add(slice)
	for {
		q.mu.Lock()
		if len(q.buf) > 0 {
			*out = q.buf[0]
			q.buf = q.buf[1:]
			q.mu.Unlock()
			return 1, nil
		}
		q.mu.Unlock()
		if !time.Now().Before(deadline) {
			return 0, nil
		}
		time.Sleep(200 * time.Microsecond)
	}
}

// pipePort is a transport backed by two byteQueues: one this end writes
// to, one it reads from. Pairing two pipePorts with the queues crossed
// gives a full-duplex loopback.
type pipePort struct {
	tx *byteQueue
	rx *byteQueue

	mu      sync.Mutex
	mutate  func(frame []byte) []byte // nil: passthrough; non-nil return nil: drop
	written [][]byte
}

func newLoopbackPair() (a, b *pipePort) {
	ab := &byteQueue{}
	ba := &byteQueue{}
	return &pipePort{tx: ab, rx: ba}, &pipePort{tx: ba, rx: ab}
}

func (p *pipePort) WriteAll(data []byte) error {
	p.mu.Lock()
	cp := append([]byte(nil), data...)
	p.written = append(p.written, cp)
	mutate := p.mutate
	p.mu.Unlock()

	if mutate != nil {
		cp = mutate(cp)
		if cp == nil {
			return nil // dropped on the wire
		}
	}
	p.tx.push(cp)
	return nil
}

func (p *pipePort) ReadByteWait(buf *byte, slice time.Duration) (int, error) {
	return p.rx.waitByte(buf, slice)
}

func (p *pipePort) Release() error { return nil }

func (p *pipePort) setMutate(f func([]byte) []byte) {
	p.mu.Lock()
	p.mutate = f
	p.mu.Unlock()
}

func (p *pipePort) writeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.written)
}
