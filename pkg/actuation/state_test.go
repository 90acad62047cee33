package actuation

import (
	"sync"
	"testing"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/mecanum"
)

func TestSnapshotInitiallyZero(t *testing.T) {
	s := NewState()
	if !s.Snapshot().IsZero() {
		t.Fatalf("Expected zero target, got %v", s.Snapshot())
	}
}

func TestPublishSnapshot(t *testing.T) {
	s := NewState()
	target := mecanum.Target{FrontLeft: 1, BackLeft: 2, FrontRight: 3, BackRight: 4}
	s.Publish(target)
	if got := s.Snapshot(); got != target {
		t.Fatalf("Snapshot returned %v, expected %v", got, target)
	}
}

func TestSnapshotNeverTorn(t *testing.T) {
	s := NewState()

	const (
		writers   = 4
		readers   = 4
		perWriter = 20000
	)

	var writersDone sync.WaitGroup
	done := make(chan struct{})
	for w := 0; w < writers; w++ {
		writersDone.Add(1)
		go func(w int) {
			defer writersDone.Done()
			for i := 0; i < perWriter; i++ {
				v := w*perWriter + i
				s.Publish(mecanum.Target{FrontLeft: v, BackLeft: v, FrontRight: v, BackRight: v})
			}
		}(w)
	}

	var readersDone sync.WaitGroup
	torn := make(chan mecanum.Target, readers)
	for r := 0; r < readers; r++ {
		readersDone.Add(1)
		go func() {
			defer readersDone.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				t := s.Snapshot()
				if t.BackLeft != t.FrontLeft || t.FrontRight != t.FrontLeft || t.BackRight != t.FrontLeft {
					torn <- t
					return
				}
			}
		}()
	}

	writersDone.Wait()
	close(done)
	readersDone.Wait()
	close(torn)
	for t2 := range torn {
		t.Errorf("Observed torn snapshot: %v", t2)
	}
}
