package buffer

import (
	"testing"
	"time"
)

func TestRingPushNext(t *testing.T) {
	t.Run("fifo", func(t *testing.T) {
		r := NewRing[int](4)
		for i := 1; i <= 3; i++ {
			if _, dropped := r.Push(i); dropped {
				t.Errorf("unexpected drop at %d", i)
			}
		}
		for i := 1; i <= 3; i++ {
			v, err := r.Next()
			if err != nil {
				t.Fatalf("next: %v", err)
			}
			if v != i {
				t.Errorf("got %d, want %d", v, i)
			}
		}
	})

	t.Run("drop oldest", func(t *testing.T) {
		r := NewRing[int](3)
		for i := 1; i <= 5; i++ {
			r.Push(i)
		}
		if r.Len() != 3 {
			t.Fatalf("len=%d", r.Len())
		}
		evicted, dropped := r.Push(6)
		if !dropped || evicted != 3 {
			t.Errorf("evicted=%d dropped=%v, want 3 true", evicted, dropped)
		}
		got := r.Drain()
		want := []int{4, 5, 6}
		if len(got) != len(want) {
			t.Fatalf("got %v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got %v, want %v", got, want)
			}
		}
	})
}

func TestRingNextBlocks(t *testing.T) {
	r := NewRing[string](2)
	done := make(chan string, 1)
	go func() {
		v, err := r.Next()
		if err != nil {
			done <- "err:" + err.Error()
			return
		}
		done <- v
	}()

	select {
	case v := <-done:
		t.Fatalf("Next returned early: %q", v)
	case <-time.After(20 * time.Millisecond):
	}

	r.Push("hello")
	select {
	case v := <-done:
		if v != "hello" {
			t.Errorf("got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not wake up")
	}
}

func TestRingClose(t *testing.T) {
	t.Run("drains then done", func(t *testing.T) {
		r := NewRing[int](4)
		r.Push(1)
		r.Push(2)
		r.Close()

		if v, err := r.Next(); err != nil || v != 1 {
			t.Fatalf("got %d, %v", v, err)
		}
		if v, err := r.Next(); err != nil || v != 2 {
			t.Fatalf("got %d, %v", v, err)
		}
		if _, err := r.Next(); err != ErrDone {
			t.Errorf("got %v, want ErrDone", err)
		}
	})

	t.Run("wakes blocked next", func(t *testing.T) {
		r := NewRing[int](1)
		done := make(chan error, 1)
		go func() {
			_, err := r.Next()
			done <- err
		}()
		time.Sleep(10 * time.Millisecond)
		r.Close()
		select {
		case err := <-done:
			if err != ErrDone {
				t.Errorf("got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Next did not wake up on close")
		}
	})

	t.Run("push after close dropped", func(t *testing.T) {
		r := NewRing[int](1)
		r.Close()
		if _, dropped := r.Push(1); dropped {
			t.Error("push after close reported drop")
		}
		if r.Len() != 0 {
			t.Errorf("len=%d", r.Len())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		r := NewRing[int](1)
		r.Close()
		r.Close()
	})
}

func TestRingReset(t *testing.T) {
	r := NewRing[int](4)
	r.Push(1)
	r.Push(2)
	r.Reset()
	if r.Len() != 0 {
		t.Fatalf("len=%d after reset", r.Len())
	}
	r.Push(9)
	if v, err := r.Next(); err != nil || v != 9 {
		t.Errorf("got %d, %v", v, err)
	}
}
