package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnowflakeIDUnique(t *testing.T) {
	gen := NewSnowflakeID(1)
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := gen.Generate()
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestPaginationBounds(t *testing.T) {
	p := NewPagination(0, 0, 95)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, int64(10), p.Pages)
	assert.Equal(t, 0, p.Offset())

	p = NewPagination(3, 200, 1000)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}
