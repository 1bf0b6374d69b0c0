package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeDependency, cause, "load cart")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDependency, err.Code())
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOfWalksChain(t *testing.T) {
	inner := New(CodeNotFound, "item not found")
	outer := fmt.Errorf("get item 7: %w", inner)

	assert.Equal(t, CodeNotFound, CodeOf(outer))
	assert.True(t, IsCode(outer, CodeNotFound))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestErrEmptyCartMatchesByCode(t *testing.T) {
	err := fmt.Errorf("place order: %w", New(CodeEmptyCart, "cart is empty for user 3"))

	assert.True(t, errors.Is(err, ErrEmptyCart))
	assert.False(t, errors.Is(err, New(CodeNotFound, "x")))
}

func TestMetadataFor(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:    http.StatusBadRequest,
		CodeUnauthorized:  http.StatusUnauthorized,
		CodeForbidden:     http.StatusForbidden,
		CodeNotFound:      http.StatusNotFound,
		CodeConflict:      http.StatusConflict,
		CodeEmptyCart:     http.StatusConflict,
		CodeStateConflict: http.StatusUnprocessableEntity,
		CodeInternal:      http.StatusInternalServerError,
		CodeDependency:    http.StatusServiceUnavailable,
		Code("BOGUS"):     http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, MetadataFor(code).HTTPStatus, code)
	}
	assert.False(t, MetadataFor(CodeInternal).DetailsAllowed)
}
