package keylock_test

import (
	"sync"
	"testing"

	"github.com/abhijeetraiiit/nccart/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	locks := keylock.New()
	counter := 0

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("pincode:560001")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, locks.Len())
}

func TestLocker_OverlappingKeySetsDoNotDeadlock(t *testing.T) {
	locks := keylock.New()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var unlock func()
			if i%2 == 0 {
				unlock = locks.Lock("a", "b")
			} else {
				unlock = locks.Lock("b", "a", "a")
			}
			unlock()
		}()
	}
	wg.Wait()

	assert.Zero(t, locks.Len())
}

func TestLocker_UnlockIsIdempotent(t *testing.T) {
	locks := keylock.New()

	unlock := locks.Lock("k")
	unlock()
	unlock()

	again := locks.Lock("k")
	defer again()
	assert.Equal(t, 1, locks.Len())
}
