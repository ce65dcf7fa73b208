package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{}.Offset())
	assert.Equal(t, 12, PageRequest{Page: 3, Limit: 6}.Offset())
	assert.GreaterOrEqual(t, PageRequest{Page: math.MaxInt, Limit: 6}.Offset(), 0)
	assert.GreaterOrEqual(t, PageRequest{Page: math.MaxInt, Limit: 1}.Offset(), 0)
}

func TestPage_HugePageNumber(t *testing.T) {
	p := Page[int]{Total: 3, PageRequest: PageRequest{Page: math.MaxInt, Limit: 6}}
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrevious())
	assert.True(t, p.OutOfRange())

	first := Page[int]{Items: nil, Total: 0, PageRequest: PageRequest{Page: 1, Limit: 6}}
	assert.False(t, first.OutOfRange())
	assert.False(t, first.HasNext())
}
