package ws

import "sync"

// Stream delivers state messages to one client. Only the latest undelivered
// message is kept, so a slow client never blocks the producer.
type Stream struct {
	client  *Client
	mu      sync.Mutex
	pending []byte
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewStream(client *Client) *Stream {
	return &Stream{
		client: client,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Push replaces any undelivered message with msg
func (s *Stream) Push(msg []byte) {
	s.mu.Lock()
	s.pending = msg
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run writes pushed messages until Stop or a failed write
func (s *Stream) Run() {
	for {
		select {
		case <-s.wake:
		case <-s.done:
			return
		}
		s.mu.Lock()
		msg := s.pending
		s.pending = nil
		s.mu.Unlock()
		if msg == nil {
			continue
		}
		if err := s.client.Send(msg); err != nil {
			return
		}
	}
}

func (s *Stream) Stop() {
	s.once.Do(func() { close(s.done) })
}
