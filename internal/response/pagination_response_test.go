package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	page, size := ClampPage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	page, size = ClampPage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageSize, size)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25, 10)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.True(t, p.HasMore)
	assert.Equal(t, 11, p.From)
	assert.Equal(t, 20, p.To)

	last := NewPagination(3, 10, 25, 5)
	assert.False(t, last.HasMore)
	assert.Equal(t, 21, last.From)
	assert.Equal(t, 25, last.To)

	empty := NewPagination(1, 10, 0, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.Zero(t, empty.From)
	assert.False(t, empty.HasMore)
}
