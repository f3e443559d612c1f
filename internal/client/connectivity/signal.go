// Package connectivity tells the client whether the server is reachable
// and runs remote calls only when it is.
package connectivity

import "sync"

// Signal is the source of online/offline state.
type Signal interface {
	// IsOnline reports the current state. It is read on every call and
	// never cached by consumers.
	IsOnline() bool
	// OnChange registers fn for state transitions. The returned function
	// unsubscribes.
	OnChange(fn func(online bool)) (cancel func())
}

// Switch is an in-memory Signal. Listeners are called synchronously from
// the goroutine calling Set, and only when the state actually changes.
type Switch struct {
	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]func(bool)
}

func NewSwitch(online bool) *Switch {
	return &Switch{online: online, subs: make(map[int]func(bool))}
}

func (s *Switch) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Set changes the state and reports whether it was a transition.
func (s *Switch) Set(online bool) bool {
	s.mu.Lock()
	if s.online == online {
		s.mu.Unlock()
		return false
	}
	s.online = online
	subs := make([]func(bool), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(online)
	}
	return true
}

func (s *Switch) OnChange(fn func(online bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(bool))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
