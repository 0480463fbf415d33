package dice

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollRange(t *testing.T) {
	r := NewRoller()
	seen := make(map[int]int)
	for i := 0; i < 6000; i++ {
		v := r.Roll()
		require.True(t, Valid(v), "roll out of range: %d", v)
		seen[v]++
	}
	// every face should show up with 6000 draws
	for face := MinValue; face <= MaxValue; face++ {
		assert.Greater(t, seen[face], 0, "face %d never rolled", face)
	}
}

func TestRollConcurrent(t *testing.T) {
	r := NewRoller()
	var wg sync.WaitGroup
	results := make(chan int, 800)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				results <- r.Roll()
			}
		}()
	}
	wg.Wait()
	close(results)

	for v := range results {
		assert.True(t, Valid(v))
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		value int
		want  bool
	}{
		{0, false},
		{1, true},
		{6, true},
		{7, false},
		{-3, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.value), "value %d", tt.value)
	}
}
