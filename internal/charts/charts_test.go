package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindDays(t *testing.T) {
	assert.Equal(t, 30, KindWeight.Days())
	assert.Equal(t, 7, KindCalories.Days())
	assert.Equal(t, 7, KindMacros.Days())
	assert.Equal(t, 7, KindActivity.Days())
}
