package session

import (
	"sync"
	"testing"
	"time"
)

// fakeClock hands out channel-backed tickers so tests advance virtual
// time explicitly instead of sleeping.
type fakeClock struct {
	mu      sync.Mutex
	tickers map[time.Duration][]*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{tickers: make(map[time.Duration][]*fakeTicker)}
}

func (f *fakeClock) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.tickers[d] = append(f.tickers[d], t)
	return t
}

// tick waits for a ticker with cadence d to exist, then delivers one
// tick to the most recently created one. The send is unbuffered, so
// returning means the scheduler goroutine received the tick.
func (f *fakeClock) tick(t *testing.T, d time.Duration) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		f.mu.Lock()
		list := f.tickers[d]
		f.mu.Unlock()
		if len(list) > 0 {
			select {
			case list[len(list)-1].ch <- time.Now():
				return
			case <-deadline:
				t.Fatalf("no consumer for %v tick", d)
			}
		}
		select {
		case <-deadline:
			t.Fatalf("no ticker with cadence %v was created", d)
		case <-time.After(time.Millisecond):
		}
	}
}

func (f *fakeClock) tickerCount(d time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers[d])
}

type fakeTicker struct{ ch chan time.Time }

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}
