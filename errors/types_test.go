package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolError(t *testing.T) {
	t.Run("message includes the code", func(t *testing.T) {
		err := New(CodeUnauthorized, "caller is not the admin")
		assert.Equal(t, "[UNAUTHORIZED] caller is not the admin", err.Error())
	})

	t.Run("formatted message", func(t *testing.T) {
		err := Newf(CodeMalformedRequest, "payload must be %d bytes", 32)
		assert.Equal(t, "[MALFORMED_REQUEST] payload must be 32 bytes", err.Error())
	})

	t.Run("cause is rendered and unwrappable", func(t *testing.T) {
		err := New(CodeInternal, "storage failure").WithCause(io.ErrUnexpectedEOF)
		assert.Contains(t, err.Error(), "unexpected EOF")
		assert.True(t, Is(err, io.ErrUnexpectedEOF))
	})

	t.Run("context accumulates", func(t *testing.T) {
		err := New(CodeInsufficientDeposit, "cannot cover deposit").
			WithContext("required", uint64(1000)).
			WithContext("payer", "abc")
		assert.Equal(t, uint64(1000), err.Context["required"])
		assert.Equal(t, "abc", err.Context["payer"])
	})
}

func TestIsCode(t *testing.T) {
	err := New(CodeInsufficientFunds, "pool too small")

	assert.True(t, IsCode(err, CodeInsufficientFunds))
	assert.False(t, IsCode(err, CodeUnauthorized))

	t.Run("sees through wrapping", func(t *testing.T) {
		wrapped := Wrap(err, "withdraw failed")
		assert.True(t, IsCode(wrapped, CodeInsufficientFunds))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, IsCode(io.EOF, CodeInternal))
		assert.False(t, IsCode(nil, CodeInternal))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidSignature, CodeOf(New(CodeInvalidSignature, "bad recovery")))
	assert.Equal(t, CodeInternal, CodeOf(io.EOF))

	wrapped := Wrapf(New(CodeNotFound, "no state"), "op %s", "bootstrap")
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(nil, "ignored"))
	require.NoError(t, Wrapf(nil, "ignored %d", 1))
}
