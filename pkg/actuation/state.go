package actuation

import (
	"sync"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/mecanum"
)

// State holds the latest drive target.  It is shared between the input
// sampler, which publishes, and the actuation loop, which takes snapshots.
type State struct {
	lock   sync.Mutex
	target mecanum.Target
}

func NewState() *State {
	return &State{}
}

// Publish replaces the whole target in one critical section.
func (s *State) Publish(target mecanum.Target) {
	s.lock.Lock()
	s.target = target
	s.lock.Unlock()
}

// Snapshot returns a copy of the target as of a single Publish.
func (s *State) Snapshot() mecanum.Target {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target
}
