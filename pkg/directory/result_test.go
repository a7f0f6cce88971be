package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultFactories(t *testing.T) {
	t.Run("SucceedDefaultsToOK", func(t *testing.T) {
		res := Succeed("payload")
		assert.True(t, res.Ok())
		assert.Equal(t, StatusOK, res.Status())
		assert.Equal(t, "payload", res.Value())
		assert.Empty(t, res.Message())
	})

	t.Run("SucceedWithExplicitStatus", func(t *testing.T) {
		res := Succeed(None{}, StatusNoContent)
		assert.True(t, res.Ok())
		assert.Equal(t, StatusNoContent, res.Status())
	})

	t.Run("FailureDefaultsToInvalid", func(t *testing.T) {
		res := Failure[string]("bad input")
		assert.False(t, res.Ok())
		assert.Equal(t, StatusInvalid, res.Status())
		assert.Equal(t, "bad input", res.Message())
		assert.Empty(t, res.Value())
	})

	t.Run("FailureWithExplicitStatus", func(t *testing.T) {
		res := Failure[string]("no rights", StatusForbidden)
		assert.Equal(t, StatusForbidden, res.Status())
	})
}
