package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageFormat(t *testing.T) {
	err := DecodeError("truncated block")
	assert.Equal(t, "decode: truncated block", err.Error())

	err = DecodeError("truncated block").WithField("price")
	assert.Equal(t, "decode: truncated block (field=price)", err.Error())
}

func TestErrorWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("short read")
	err := Wrap(cause, KindFile, "cannot read data.jonx")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "short read")
	assert.True(t, IsKind(err, KindFile))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, KindDecode, "nothing"))
}

func TestIsKind(t *testing.T) {
	err := ValidationError("unknown field").WithField("x")
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindDecode))
	assert.False(t, IsKind(errors.New("plain"), KindValidation))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsKind(wrapped, KindValidation))
}

func TestWithDetail(t *testing.T) {
	err := EncodeError("record 3 has a different key set").
		WithDetail("missing_keys", []string{"b"}).
		WithDetail("extra_keys", []string{"c"})

	assert.Equal(t, []string{"b"}, err.Details["missing_keys"])
	assert.Equal(t, []string{"c"}, err.Details["extra_keys"])
}
