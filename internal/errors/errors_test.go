package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	sentinels := []error{
		ErrInvalidDimension,
		ErrInvalidCount,
		ErrPartExceedsSheet,
		ErrDepthExceedsThickness,
		ErrUnknownToolReference,
		ErrMalformedGeometry,
	}

	for _, s := range sentinels {
		t.Run(s.Error(), func(t *testing.T) {
			wrapped := Wrapf(s, "stage %d", 3)
			wrapped = WithDetail(wrapped, "some detail")
			assert.True(t, Is(wrapped, s))
			assert.Contains(t, wrapped.Error(), s.Error())
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(Wrap(ErrInvalidDimension, "width")))
	assert.True(t, IsValidationError(Wrap(ErrInvalidCount, "doors")))
	assert.False(t, IsValidationError(ErrPartExceedsSheet))
	assert.False(t, IsValidationError(nil))
}

func TestDetailsAreRetrievable(t *testing.T) {
	err := WithDetailf(Wrap(ErrMalformedGeometry, "path"), "points=%d", 1)
	assert.Equal(t, []string{"points=1"}, GetAllDetails(err))
}
