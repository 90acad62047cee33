package camera

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type State int32

const (
	Inactive State = iota
	Starting
	Active
	StoppingOnError
	StoppingOnRequest
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Starting:
		return "starting"
	case Active:
		return "active"
	case StoppingOnError:
		return "stopping on error"
	case StoppingOnRequest:
		return "stopping on request"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

type Frame interface {
	Empty() bool
}

// Capture is a video source.  CaptureFrame may return the same Frame value
// each time; it is only valid until the next call.
type Capture interface {
	Open() error
	CaptureFrame() (Frame, error)
	Close() error
}

// Display is the preview surface.
type Display interface {
	Show(frame Frame) error
	PollQuitKey() bool
	Close() error
}

// Driver opens the capture and display for a new session.
type Driver interface {
	NewCapture() Capture
	NewDisplay() (Display, error)
}

// Session runs at most one best-effort camera stream at a time.  Toggle must
// only be called from one goroutine (the input sampler); the stream goroutine
// only ever moves itself back to Inactive.
type Session struct {
	driver Driver

	state   int32
	running int32
	wg      sync.WaitGroup
}

func NewSession(driver Driver) *Session {
	return &Session{driver: driver}
}

func (s *Session) State() State {
	return State(atomic.LoadInt32(&s.state))
}

// Toggle starts a stream if none is running, otherwise asks the running one
// to stop.  Presses while a stream is shutting down are ignored.
func (s *Session) Toggle() {
	switch s.State() {
	case Inactive:
		fmt.Println("Camera: activating feed")
		// The previous stream goroutine may still be returning.
		s.wg.Wait()
		atomic.StoreInt32(&s.state, int32(Starting))
		atomic.StoreInt32(&s.running, 1)
		s.wg.Add(1)
		go s.loop()
	case Starting, Active:
		fmt.Println("Camera: deactivating feed")
		s.requestStop(StoppingOnRequest)
	default:
		fmt.Println("Camera: still stopping, ignoring toggle")
	}
}

// Stop asks any running stream to stop and waits for it to release the camera.
func (s *Session) Stop() {
	s.requestStop(StoppingOnRequest)
	s.wg.Wait()
}

func (s *Session) requestStop(reason State) {
	atomic.StoreInt32(&s.running, 0)
	if !atomic.CompareAndSwapInt32(&s.state, int32(Active), int32(reason)) {
		atomic.CompareAndSwapInt32(&s.state, int32(Starting), int32(reason))
	}
}

func (s *Session) isRunning() bool {
	return atomic.LoadInt32(&s.running) == 1
}

func (s *Session) loop() {
	defer s.wg.Done()
	defer atomic.StoreInt32(&s.state, int32(Inactive))
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("Camera: stream panicked:", r)
			atomic.StoreInt32(&s.running, 0)
		}
	}()

	capture := s.driver.NewCapture()
	if err := capture.Open(); err != nil {
		fmt.Println("Camera: failed to open capture device:", err)
		s.requestStop(StoppingOnError)
		return
	}
	defer func() {
		if err := capture.Close(); err != nil {
			fmt.Println("Camera: failed to close capture device:", err)
		}
	}()

	display, err := s.driver.NewDisplay()
	if err != nil {
		fmt.Println("Camera: failed to open display:", err)
		s.requestStop(StoppingOnError)
		return
	}
	defer func() {
		if err := display.Close(); err != nil {
			fmt.Println("Camera: failed to close display:", err)
		}
	}()

	atomic.CompareAndSwapInt32(&s.state, int32(Starting), int32(Active))
	fmt.Println("Camera: feed active")

	for s.isRunning() {
		frame, err := capture.CaptureFrame()
		if err != nil {
			fmt.Println("Camera: capture failed:", err)
			s.requestStop(StoppingOnError)
			return
		}
		if frame == nil || frame.Empty() {
			continue
		}
		if err := display.Show(frame); err != nil {
			fmt.Println("Camera: display failed:", err)
			s.requestStop(StoppingOnError)
			return
		}
		if display.PollQuitKey() {
			fmt.Println("Camera: quit key pressed")
			s.requestStop(StoppingOnRequest)
			return
		}
	}
	fmt.Println("Camera: feed stopped")
}
