package ui

import (
	"strings"
	"sync"
	"testing"
	"time"
)

type lockedBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func TestSpinnerDrawsLatestMessage(t *testing.T) {
	var buf lockedBuffer
	s := NewSpinnerTo(&buf)
	s.Start("searching")
	s.Update("delivering 1/2")
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "delivering 1/2") {
		t.Fatalf("output = %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Fatalf("line not cleared: %q", out)
	}
}
