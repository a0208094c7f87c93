package locking

import (
	"sync"
	"testing"
)

func TestMemLock_SerializesSameKey(t *testing.T) {
	group := NewMemLock()

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				group.DoWithLock("shared", func() (interface{}, error) {
					counter++
					return nil, nil
				})
			}
		}()
	}
	wg.Wait()

	if counter != workers*100 {
		t.Errorf("expected %d increments, got %d", workers*100, counter)
	}
}

func TestMemLock_ReturnsValues(t *testing.T) {
	group := NewMemLock()

	v, err := group.DoWithLock("k", func() (interface{}, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(int) != 42 {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestNoOpGroup(t *testing.T) {
	group := NewNoOpGroup()

	v, err := group.DoWithLock("k", func() (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(string) != "ok" {
		t.Errorf("expected ok, got %v", v)
	}
}
