package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	assert.NotPanics(t, func() { Require(true, "never") })

	if Enabled {
		assert.PanicsWithValue(t, "contract violation: size 0 must be positive", func() {
			Require(false, "size %d must be positive", 0)
		})
	} else {
		assert.NotPanics(t, func() { Require(false, "ignored in release builds") })
	}
}
