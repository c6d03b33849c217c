package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGet(t *testing.T) {
	s := New()

	_, ok := s.Get(KeySQLQuery)
	assert.False(t, ok)

	s.Set(KeySQLQuery, "SELECT 1")
	v, ok := s.Get(KeySQLQuery)
	assert.True(t, ok)
	assert.Equal(t, "SELECT 1", v)

	s.Set(KeySQLQuery, "SELECT 2")
	v, _ = s.Get(KeySQLQuery)
	assert.Equal(t, "SELECT 2", v)
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Set(fmt.Sprintf("key-%d", n), n)
			s.Get(KeyQueryResult)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		v, ok := s.Get(fmt.Sprintf("key-%d", i))
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
}
