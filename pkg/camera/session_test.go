package camera

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeFrame struct{ empty bool }

func (f fakeFrame) Empty() bool { return f.empty }

type fakeDriver struct {
	opens, captureCloses, displayCloses, shows int32

	openErr     error
	failCapture int32
	quitKey     int32
	panicShow   bool
}

func (d *fakeDriver) NewCapture() Capture { return &fakeCapture{d: d} }

func (d *fakeDriver) NewDisplay() (Display, error) { return &fakeDisplay{d: d}, nil }

type fakeCapture struct{ d *fakeDriver }

func (c *fakeCapture) Open() error {
	atomic.AddInt32(&c.d.opens, 1)
	return c.d.openErr
}

func (c *fakeCapture) CaptureFrame() (Frame, error) {
	time.Sleep(time.Millisecond)
	if atomic.LoadInt32(&c.d.failCapture) == 1 {
		return nil, errors.New("camera unplugged")
	}
	return fakeFrame{}, nil
}

func (c *fakeCapture) Close() error {
	atomic.AddInt32(&c.d.captureCloses, 1)
	return nil
}

type fakeDisplay struct{ d *fakeDriver }

func (s *fakeDisplay) Show(frame Frame) error {
	if s.d.panicShow {
		panic("window system went away")
	}
	atomic.AddInt32(&s.d.shows, 1)
	return nil
}

func (s *fakeDisplay) PollQuitKey() bool { return atomic.LoadInt32(&s.d.quitKey) == 1 }

func (s *fakeDisplay) Close() error {
	atomic.AddInt32(&s.d.displayCloses, 1)
	return nil
}

func waitForState(t *testing.T, s *Session, expected State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != expected {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for state %v, still %v", expected, s.State())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestToggleTwiceLeavesInactive(t *testing.T) {
	d := &fakeDriver{}
	s := NewSession(d)

	s.Toggle()
	waitForState(t, s, Active)
	s.Toggle()
	waitForState(t, s, Inactive)
	s.Stop()

	if d.opens != 1 {
		t.Fatalf("Expected one open, got %d", d.opens)
	}
	if d.captureCloses != 1 || d.displayCloses != 1 {
		t.Fatalf("Expected one close of each, got capture=%d display=%d", d.captureCloses, d.displayCloses)
	}
}

func TestImmediateDoubleToggle(t *testing.T) {
	d := &fakeDriver{}
	s := NewSession(d)

	s.Toggle()
	s.Toggle()
	waitForState(t, s, Inactive)
	s.Stop()

	if d.captureCloses != d.opens {
		t.Fatalf("Opened %d times but closed %d times", d.opens, d.captureCloses)
	}
}

func TestCaptureErrorEndsSession(t *testing.T) {
	d := &fakeDriver{}
	s := NewSession(d)

	s.Toggle()
	waitForState(t, s, Active)
	atomic.StoreInt32(&d.failCapture, 1)
	waitForState(t, s, Inactive)
	s.Stop()

	if d.captureCloses != 1 {
		t.Fatalf("Expected one capture close, got %d", d.captureCloses)
	}

	// A fresh press starts a new session.
	atomic.StoreInt32(&d.failCapture, 0)
	s.Toggle()
	waitForState(t, s, Active)
	s.Stop()
	if s.State() != Inactive {
		t.Fatalf("Expected inactive after Stop, got %v", s.State())
	}
	if d.opens != 2 || d.captureCloses != 2 {
		t.Fatalf("Expected 2 opens and closes, got %d and %d", d.opens, d.captureCloses)
	}
}

func TestOpenFailureEndsSession(t *testing.T) {
	d := &fakeDriver{openErr: errors.New("no such device")}
	s := NewSession(d)

	s.Toggle()
	waitForState(t, s, Inactive)
	s.Stop()
	if d.captureCloses != 0 || d.displayCloses != 0 {
		t.Fatalf("Nothing should be closed after failed open")
	}
}

func TestQuitKeyEndsSession(t *testing.T) {
	d := &fakeDriver{}
	s := NewSession(d)

	s.Toggle()
	waitForState(t, s, Active)
	atomic.StoreInt32(&d.quitKey, 1)
	waitForState(t, s, Inactive)
	s.Stop()
	if d.displayCloses != 1 {
		t.Fatalf("Expected one display close, got %d", d.displayCloses)
	}
}

func TestPanicInStreamIsContained(t *testing.T) {
	d := &fakeDriver{panicShow: true}
	s := NewSession(d)

	s.Toggle()
	waitForState(t, s, Inactive)
	s.Stop()
	if d.captureCloses != 1 || d.displayCloses != 1 {
		t.Fatalf("Expected one close of each, got capture=%d display=%d", d.captureCloses, d.displayCloses)
	}
}

func TestStopWhenInactive(t *testing.T) {
	s := NewSession(&fakeDriver{})
	s.Stop()
	if s.State() != Inactive {
		t.Fatalf("Expected inactive, got %v", s.State())
	}
}
