// Package pipeline implements the parallel writer pipeline: a fixed
// pool of producer goroutines, each owning a counter-partitioned
// ChaCha context, draining in strict round-robin order into a single
// writer.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/LeoVasanko/RandQuik/internal/rqerr"
	"github.com/LeoVasanko/RandQuik/pkg/chacha"
)

// DefaultBlockBytes is the per-slot buffer size: 2 MiB, empirically a
// throughput sweet spot.
const DefaultBlockBytes = 2 << 20

// DefaultWorkers is the default producer pool size.
const DefaultWorkers = 8

// cancelFallback bounds how long shutdown waits for producer goroutines
// to notice quit before giving up on them. Generation never blocks, so
// in practice producers return almost immediately; this exists only to
// bound pathological scheduler delay.
const cancelFallback = 5 * time.Second

// quitFlag is a process-wide atomic boolean set by SIGINT/SIGTERM, a
// write failure, or the byte cap being reached.
type quitFlag struct {
	v atomic.Bool
}

func (q *quitFlag) isSet() bool { return q.v.Load() }
func (q *quitFlag) set()        { q.v.Store(true) }

// Config configures one pipeline run.
type Config struct {
	Key    [chacha.KeySize]byte
	IV     [chacha.IVSize]byte
	Rounds int

	Workers    int // W; DefaultWorkers if zero
	BlockBytes int // DefaultBlockBytes if zero
	MaxBytes   uint64

	Logger  zerolog.Logger
	Metrics interface {
		AddBytes(n int)
		IncBlocks()
	}
}

// Pipeline drives counter-partitioned producers into a single ordered
// writer.
type Pipeline struct {
	cfg   Config
	slots []*slot
	quit  quitFlag

	bytesWritten uint64 // owned exclusively by the writer goroutine
}

// New validates and normalizes cfg into a Pipeline ready to Run.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.BlockBytes <= 0 {
		cfg.BlockBytes = DefaultBlockBytes
	}
	return &Pipeline{cfg: cfg}
}

// requestQuit sets the shared flag and wakes every slot so a blocked
// producer or writer notices immediately rather than on its next
// natural signal.
func (p *Pipeline) requestQuit() {
	p.quit.set()
	for _, s := range p.slots {
		s.wake()
	}
}

// Run partitions the keystream across p.cfg.Workers producers and
// drains them round-robin into w until ctx is cancelled, a write fails,
// or MaxBytes is reached. It returns nil on any clean shutdown and a
// *rqerr.Error (kind WriteIO) on I/O failure.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) error {
	blocksPerBuffer := p.cfg.BlockBytes / chacha.BlockSize
	workers := p.cfg.Workers

	base := chacha.NewContext(&p.cfg.Key, &p.cfg.IV, p.cfg.Rounds)
	defer base.Wipe()

	p.slots = make([]*slot, workers)
	for i := 0; i < workers; i++ {
		slotCtx := base.CloneAt(int64(i * blocksPerBuffer))
		p.slots[i] = newSlot(p.cfg.BlockBytes, slotCtx)
	}
	defer func() {
		for _, s := range p.slots {
			s.ctx.Wipe()
		}
	}()

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		s := p.slots[i]
		g.Go(func() error {
			p.produce(s, blocksPerBuffer, workers)
			return nil
		})
	}

	var writeErr error
	writerDone := make(chan struct{})
	g.Go(func() error {
		defer close(writerDone)
		writeErr = p.write(w)
		return writeErr
	})

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			p.requestQuit()
		case <-stop:
		}
	}()

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	// The writer returns only once quit is set, so shutdown starts here
	// and cancelFallback is counted from this point.
	<-writerDone

	var result error
	select {
	case err := <-done:
		result = err
	case <-time.After(cancelFallback):
		p.cfg.Logger.Warn().Msg("pipeline shutdown cancel fallback: producers did not exit in time, abandoning them")
		result = multierror.Append(result, rqerr.New(rqerr.WriteIO, "pipeline shutdown timed out waiting for producers"))
	}
	close(stop)

	if result != nil {
		return result
	}
	return nil
}

// produce is one worker's loop, the producer half of the per-slot
// protocol: wait for the slot to be drained, fill it, advance the
// counter to this slot's next position, mark ready, repeat.
func (p *Pipeline) produce(s *slot, blocksPerBuffer, workers int) {
	for {
		if !s.waitUntilReadyToFill(&p.quit) {
			return
		}

		// Fill from a copy: Update may generate a whole batch past the
		// buffer's end, so the slot's own cursor is moved only by seeking.
		fill := s.ctx.CloneAt(0)
		fill.Update(s.buf)
		fill.Wipe()
		s.ctx.SeekBlocks(int64(workers * blocksPerBuffer))

		s.markReady()
	}
}

// write is the writer's loop, the consumer half of the per-slot
// protocol: visit slots 0..W-1 in fixed order, draining each as it
// becomes ready, applying the byte cap truncation on the final write.
func (p *Pipeline) write(w io.Writer) error {
	i := 0
	for {
		if p.quit.isSet() {
			return nil
		}

		s := p.slots[i]
		if !s.waitUntilReadyToDrain(&p.quit) {
			return nil
		}

		buf := s.buf
		n := len(buf)
		truncating := false
		if p.cfg.MaxBytes > 0 {
			remaining := p.cfg.MaxBytes - p.bytesWritten
			if uint64(n) >= remaining {
				n = int(remaining)
				truncating = true
			}
		}

		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				s.markDrained()
				p.requestQuit()
				return rqerr.Wrap(rqerr.WriteIO, "short write or I/O error writing output", err)
			}
			p.bytesWritten += uint64(n)
			if p.cfg.Metrics != nil {
				p.cfg.Metrics.AddBytes(n)
				p.cfg.Metrics.IncBlocks()
			}
		}

		s.markDrained()

		if truncating {
			p.requestQuit()
			return nil
		}

		i = (i + 1) % len(p.slots)
	}
}

// BytesWritten reports the total bytes written so far. Safe to call
// only after Run has returned.
func (p *Pipeline) BytesWritten() uint64 {
	return p.bytesWritten
}
