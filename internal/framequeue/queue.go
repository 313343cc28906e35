package framequeue

import (
	"sync"
	"time"

	"github.com/tauraamui/xerror"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

var (
	ErrTimeout     = xerror.New("timed out waiting for frame")
	ErrNoFrame     = xerror.New("no frame ready")
	ErrClosed      = xerror.New("frame queue closed")
	ErrNotBorrowed = xerror.New("frame buffer not borrowed from this queue")
)

// BlockIndefinitely is the request timeout value which waits for a
// frame with no upper bound.
const BlockIndefinitely = time.Duration(-1)

// Queue hands decoded frame buffers from the capture loop to frame
// requesters. The producer side never blocks: publishing into a full
// queue recycles the oldest ready frame, and when every buffer is
// borrowed the capture loop simply drops the exposure. Requesters
// borrow a buffer and must release it back for reuse.
type Queue struct {
	mu       sync.Mutex
	ready    chan *tofframe.Buffer
	free     chan *tofframe.Buffer
	borrowed map[*tofframe.Buffer]struct{}
	done     chan struct{}
	closed   bool

	published uint64
	delivered uint64
	dropped   uint64
}

type Stats struct {
	Published uint64
	Delivered uint64
	Dropped   uint64
}

// New creates a queue with the given ready capacity. Two extra
// buffers beyond the ready capacity are pooled so the producer can
// fill one while a requester holds another.
func New(capacity, width, height int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	poolSize := capacity + 2
	q := Queue{
		ready:    make(chan *tofframe.Buffer, capacity),
		free:     make(chan *tofframe.Buffer, poolSize),
		borrowed: map[*tofframe.Buffer]struct{}{},
		done:     make(chan struct{}),
	}
	for i := 0; i < poolSize; i++ {
		q.free <- tofframe.NewBuffer(width, height)
	}
	return &q
}

// AcquireFree borrows a buffer for the producer to fill. It never
// blocks: with no free buffer it recycles the oldest ready frame, and
// with every buffer borrowed it reports the exposure as dropped by
// returning nil.
func (q *Queue) AcquireFree() *tofframe.Buffer {
	select {
	case b := <-q.free:
		return b
	default:
	}

	select {
	case b := <-q.ready:
		q.mu.Lock()
		q.dropped++
		q.mu.Unlock()
		return b
	default:
	}

	q.mu.Lock()
	q.dropped++
	q.mu.Unlock()
	return nil
}

// Publish readies a filled buffer for the next frame request. The
// buffer must have come from AcquireFree.
func (q *Queue) Publish(b *tofframe.Buffer) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.free <- b
		return
	}
	q.published++
	q.mu.Unlock()

	select {
	case q.ready <- b:
	default:
		// capacity raced away underneath us, recycle the oldest
		select {
		case old := <-q.ready:
			q.mu.Lock()
			q.dropped++
			q.mu.Unlock()
			q.free <- old
		default:
		}
		q.ready <- b
	}
}

// Request borrows the oldest ready frame. A negative timeout blocks
// until a frame is ready, zero polls, and a positive value bounds the
// wait. Ready frames still drain after close; once empty a closed
// queue reports ErrClosed.
func (q *Queue) Request(timeout time.Duration) (*tofframe.Buffer, error) {
	select {
	case b := <-q.ready:
		return q.lend(b), nil
	default:
	}

	if timeout == 0 {
		if q.isClosed() {
			return nil, ErrClosed
		}
		return nil, ErrNoFrame
	}

	if timeout < 0 {
		select {
		case b := <-q.ready:
			return q.lend(b), nil
		case <-q.done:
			return q.drainAfterClose()
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case b := <-q.ready:
		return q.lend(b), nil
	case <-q.done:
		return q.drainAfterClose()
	case <-timer.C:
		return nil, ErrTimeout
	}
}

func (q *Queue) drainAfterClose() (*tofframe.Buffer, error) {
	select {
	case b := <-q.ready:
		return q.lend(b), nil
	default:
		return nil, ErrClosed
	}
}

func (q *Queue) lend(b *tofframe.Buffer) *tofframe.Buffer {
	q.mu.Lock()
	q.borrowed[b] = struct{}{}
	q.delivered++
	q.mu.Unlock()
	return b
}

// Release returns a borrowed buffer to the free pool. Releasing a
// buffer the queue did not lend out, or releasing twice, is an error.
func (q *Queue) Release(b *tofframe.Buffer) error {
	if b == nil {
		return ErrNotBorrowed
	}
	q.mu.Lock()
	if _, ok := q.borrowed[b]; !ok {
		q.mu.Unlock()
		return ErrNotBorrowed
	}
	delete(q.borrowed, b)
	q.mu.Unlock()
	q.free <- b
	return nil
}

// Discard returns an acquired but never published buffer straight to
// the free pool.
func (q *Queue) Discard(b *tofframe.Buffer) {
	if b == nil {
		return
	}
	q.free <- b
}

// Close stops the queue accepting new frames and wakes any blocked
// requesters. Already-ready frames remain requestable until drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

func (q *Queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Published: q.published,
		Delivered: q.delivered,
		Dropped:   q.dropped,
	}
}
