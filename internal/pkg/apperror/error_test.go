package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCode(t *testing.T) {
	errNotFound := New(CodeNotFound, "record not found")

	assert.Equal(t, Code(""), GetCode(nil))
	assert.Equal(t, CodeNotFound, GetCode(errNotFound))
	assert.Equal(t, CodeNotFound, GetCode(fmt.Errorf("get record: %w", errNotFound)))
	assert.Equal(t, CodeInternal, GetCode(errors.New("connection refused")))
}

func TestWrap(t *testing.T) {
	errLocation := New(CodeInvalidLocation, "invalid location")

	err := Wrap(errLocation, "You are 200.00 km away from office")

	assert.True(t, errors.Is(err, errLocation))
	assert.Equal(t, CodeInvalidLocation, GetCode(err))
	assert.Equal(t, "You are 200.00 km away from office", err.Error())
}
