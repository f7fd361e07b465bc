package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcome(t *testing.T) {
	t.Run("failure prefix classifies as failed regardless of remainder", func(t *testing.T) {
		outcome := ParseOutcome([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01})
		require.True(t, outcome.Failed)
		assert.Equal(t, []byte{0x01}, outcome.Payload)

		outcome = ParseOutcome([]byte{0xDE, 0xAD, 0xBE, 0xEF})
		require.True(t, outcome.Failed)
		assert.Empty(t, outcome.Payload)
	})

	t.Run("empty output is success with empty payload", func(t *testing.T) {
		outcome := ParseOutcome(nil)
		require.False(t, outcome.Failed)
		assert.Empty(t, outcome.Payload)
	})

	t.Run("outputs shorter than the prefix are success", func(t *testing.T) {
		outcome := ParseOutcome([]byte{0xDE, 0xAD, 0xBE})
		require.False(t, outcome.Failed)
		assert.Equal(t, []byte{0xDE, 0xAD, 0xBE}, outcome.Payload)
	})

	t.Run("non-prefixed output is the success payload", func(t *testing.T) {
		outcome := ParseOutcome([]byte{0x01, 0xDE, 0xAD, 0xBE, 0xEF})
		require.False(t, outcome.Failed)
		assert.Equal(t, []byte{0x01, 0xDE, 0xAD, 0xBE, 0xEF}, outcome.Payload)
	})
}
