package protocol

import (
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureJSON(t *testing.T) {
	var sig Signature
	for i := range sig.BigR.X {
		sig.BigR.X[i] = byte(i)
		sig.BigR.Y[i] = byte(i + 1)
		sig.S[i] = byte(i + 2)
	}
	sig.RecoveryID = 1

	data, err := json.Marshal(sig)
	require.NoError(t, err)

	var decoded Signature
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sig, decoded)

	t.Run("rejects short coordinates", func(t *testing.T) {
		var bad Signature
		err := json.Unmarshal([]byte(`{"big_r":{"x":"0x00","y":"0x00"},"s":"0x00","recovery_id":0}`), &bad)
		require.Error(t, err)
	})
}

func TestSignatureCompact(t *testing.T) {
	var sig Signature
	sig.BigR.X[0] = 0xAA
	sig.S[31] = 0xBB
	sig.RecoveryID = 1

	compact := sig.Compact()
	assert.Equal(t, byte(0xAA), compact[0])
	assert.Equal(t, byte(0xBB), compact[63])
	assert.Equal(t, byte(0x01), compact[64])
}

func TestRequestIDJSON(t *testing.T) {
	var id RequestID
	id[0] = 0xDE
	id[31] = 0x01

	data, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded RequestID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	parsed, err := RequestIDFromHex(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = RequestIDFromHex("0x1234")
	require.Error(t, err)
}

func TestFeePayer(t *testing.T) {
	requester := solana.NewWallet().PublicKey()
	sponsor := solana.NewWallet().PublicKey()

	t.Run("self funded resolves to the requester", func(t *testing.T) {
		fp := SelfFunded()
		assert.Equal(t, requester, fp.Resolve(requester))
		_, distinct := fp.Distinct()
		assert.False(t, distinct)
	})

	t.Run("distinct payer resolves to the sponsor", func(t *testing.T) {
		fp := PaidBy(sponsor)
		assert.Equal(t, sponsor, fp.Resolve(requester))
		payer, distinct := fp.Distinct()
		assert.True(t, distinct)
		assert.Equal(t, sponsor, payer)
	})
}
