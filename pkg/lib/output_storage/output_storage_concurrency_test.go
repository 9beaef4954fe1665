package output_storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// helper: receive all until channel closes
func recvAllString(t *testing.T, ch <-chan []byte) string {
	t.Helper()
	var out []byte
	for b := range ch {
		out = append(out, b...)
	}
	return string(out)
}

func TestSubscribe_ConcurrentSubscribersWhileAppending(t *testing.T) {
	s := NewOutputStorage(0)

	const N = 300
	expected := make([]byte, 0, N*4)
	for i := 1; i <= N; i++ {
		expected = append(expected, []byte(fmt.Sprintf("%d\n", i))...)
	}

	const subs = 10
	chs := make([]<-chan []byte, 0, subs)
	for i := 0; i < subs; i++ {
		chs = append(chs, s.Subscribe(context.Background(), 32))
	}

	go func() {
		for i := 1; i <= N; i++ {
			_, _ = s.Write([]byte(fmt.Sprintf("%d\n", i)))
			time.Sleep(time.Microsecond * 200)
		}
		s.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(subs)
	outs := make([]string, subs)
	for i := 0; i < subs; i++ {
		go func() { defer wg.Done(); outs[i] = recvAllString(t, chs[i]) }()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("timeout waiting for subscribers to finish")
	}

	expectedStr := string(expected)
	for i := 0; i < subs; i++ {
		if outs[i] != expectedStr {
			t.Fatalf("subscriber %d mismatch: got %d bytes, want %d", i, len(outs[i]), len(expectedStr))
		}
	}
}

func TestAppend_ConcurrentWritersKeepEveryChunk(t *testing.T) {
	s := NewOutputStorage(0)
	defer s.Close()

	const writers, perWriter = 8, 100
	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Append([]byte("x"))
			}
		}()
	}
	wg.Wait()

	if got, want := len(s.Bytes()), writers*perWriter; got != want {
		t.Fatalf("retained %d bytes, want %d", got, want)
	}
}

func TestSubscribe_ManySubscribersCloseOnClose(t *testing.T) {
	s := NewOutputStorage(0)

	const subs = 50
	var wg sync.WaitGroup
	wg.Add(subs)
	for i := 0; i < subs; i++ {
		ch := s.Subscribe(context.Background(), 1)
		go func() {
			for range ch {
			}
			wg.Done()
		}()
	}

	s.Close()

	c := make(chan struct{})
	go func() { wg.Wait(); close(c) }()

	select {
	case <-c:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("subscribers did not close in time")
	}
}
