package ws

import "testing"

func TestStreamKeepsOnlyTheLatest(t *testing.T) {
	conn := &fakeConn{}
	s := NewStream(NewClient(conn))
	s.Push([]byte("first"))
	s.Push([]byte("second"))

	go s.Run()
	defer s.Stop()

	waitFor(t, func() bool { return conn.count() == 1 })
	conn.mu.Lock()
	got := string(conn.frames[0])
	conn.mu.Unlock()
	if got != "second" {
		t.Fatalf("delivered %q", got)
	}

	s.Push([]byte("third"))
	waitFor(t, func() bool { return conn.count() == 2 })
}

func TestStreamStopIsIdempotent(t *testing.T) {
	s := NewStream(NewClient(&fakeConn{}))
	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()
	s.Stop()
	s.Stop()
	<-done
}
