package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(0), MinorUnits(0))
	assert.Equal(t, int64(1000), MinorUnits(10))
	assert.Equal(t, int64(1298), MinorUnits(12.98))

	// 4.35 and 2090.7 are not exactly representable in binary; truncation
	// would yield 434 and 209069.
	assert.Equal(t, int64(435), MinorUnits(4.35))
	assert.Equal(t, int64(209070), MinorUnits(2090.7))
}
