package pipeline

import (
	"sync"

	"github.com/LeoVasanko/RandQuik/pkg/chacha"
)

// slot is one producer/writer hand-off channel: a private generator, a
// fixed-size buffer, and a ready flag mediated by a mutex+condition
// pair. The buffer is written only by this slot's producer and read
// only by the writer; ready arbitrates which side currently owns it.
type slot struct {
	mu   sync.Mutex
	cond *sync.Cond

	ready bool
	buf   []byte
	ctx   *chacha.Context
}

func newSlot(blockBytes int, ctx *chacha.Context) *slot {
	s := &slot{buf: make([]byte, blockBytes), ctx: ctx}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// waitUntilReadyToFill blocks while the slot's previous buffer has not
// yet been drained by the writer. It returns false if quit was
// observed instead (the producer should exit).
func (s *slot) waitUntilReadyToFill(quit *quitFlag) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.ready && !quit.isSet() {
		s.cond.Wait()
	}
	return !quit.isSet()
}

func (s *slot) markReady() {
	s.mu.Lock()
	s.ready = true
	s.cond.Signal()
	s.mu.Unlock()
}

// waitUntilReadyToDrain blocks while the slot has nothing new for the
// writer. It returns false if quit was observed instead.
func (s *slot) waitUntilReadyToDrain(quit *quitFlag) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.ready && !quit.isSet() {
		s.cond.Wait()
	}
	return s.ready
}

func (s *slot) markDrained() {
	s.mu.Lock()
	s.ready = false
	s.cond.Signal()
	s.mu.Unlock()
}

// wake releases any producer or writer currently blocked in this
// slot's condition variable, so a quit request is noticed promptly
// instead of only on the next natural signal.
func (s *slot) wake() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}
