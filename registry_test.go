package granola_test

import (
	"sync"
	"testing"

	"github.com/zoobzio/granola"
)

func TestDefault_SharedInstance(t *testing.T) {
	granola.ResetDefault()

	a := granola.Default()
	b := granola.Default()
	if a != b {
		t.Error("Default() should return the shared mapper")
	}
}

func TestResetDefault(t *testing.T) {
	granola.ResetDefault()

	before := granola.Default()
	granola.ResetDefault()
	after := granola.Default()

	if before == after {
		t.Error("ResetDefault() should discard the shared mapper")
	}
}

func TestDefault_Concurrent(t *testing.T) {
	granola.ResetDefault()

	var wg sync.WaitGroup
	results := make([]*granola.Mapper, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = granola.Default()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent Default() calls should agree on one mapper")
		}
	}
}
