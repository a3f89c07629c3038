package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := New(CodeInsufficientStock, "insufficient stock: requested 3, available 1")
	err := Wrapf(inner, "failed to add product to cart %d", 4)

	require.NotNil(t, err)
	assert.Equal(t, CodeInsufficientStock, err.Code())
	assert.Equal(t, "failed to add product to cart 4: insufficient stock: requested 3, available 1", err.Error())
	assert.True(t, errors.Is(err, inner))
}

func TestWrapForeignErrorIsInternal(t *testing.T) {
	err := Wrap(errors.New("connection reset"), "failed to get cart")
	assert.Equal(t, CodeInternal, err.Code())
	assert.True(t, Is(err, CodeInternal))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestCodeOfThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "product 9 not found"))
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
