package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// derivePrivateKey mirrors the additive public derivation on the private
// side: derived = root + epsilon mod n. Only the external signer can do
// this; tests use it to prove the public derivation matches.
func derivePrivateKey(t *testing.T, root *ecdsa.PrivateKey, epsilon *secp256k1.ModNScalar) *ecdsa.PrivateKey {
	t.Helper()

	var d secp256k1.ModNScalar
	overflow := d.SetByteSlice(root.D.Bytes())
	require.False(t, overflow)
	d.Add(epsilon)

	b := d.Bytes()
	return secp256k1.PrivKeyFromBytes(b[:]).ToECDSA()
}

func TestDeriveEpsilon(t *testing.T) {
	requester := solana.NewWallet().PublicKey()

	t.Run("deterministic", func(t *testing.T) {
		a := DeriveEpsilon("solana:localnet", requester, 0, "my-path")
		b := DeriveEpsilon("solana:localnet", requester, 0, "my-path")
		require.True(t, a.Equals(b))
	})

	t.Run("distinct per requester, path, version, and chain", func(t *testing.T) {
		base := DeriveEpsilon("solana:localnet", requester, 0, "my-path")

		other := solana.NewWallet().PublicKey()
		assert.False(t, base.Equals(DeriveEpsilon("solana:localnet", other, 0, "my-path")))
		assert.False(t, base.Equals(DeriveEpsilon("solana:localnet", requester, 0, "other-path")))
		assert.False(t, base.Equals(DeriveEpsilon("solana:localnet", requester, 1, "my-path")))
		assert.False(t, base.Equals(DeriveEpsilon("solana:mainnet", requester, 0, "my-path")))
	})

	t.Run("user path never collides with the response path", func(t *testing.T) {
		user := DeriveEpsilon("solana:localnet", requester, 0, "my-path")
		response := DeriveEpsilon("solana:localnet", requester, 0, ResponsePath)
		assert.False(t, user.Equals(response))
	})
}

func TestDerivePublicKey(t *testing.T) {
	root, err := crypto.GenerateKey()
	require.NoError(t, err)
	requester := solana.NewWallet().PublicKey()

	t.Run("matches the private-side derivation", func(t *testing.T) {
		epsilon := DeriveEpsilon("solana:localnet", requester, 0, "my-path")

		derivedPub, err := DerivePublicKey(&root.PublicKey, epsilon)
		require.NoError(t, err)

		derivedPriv := derivePrivateKey(t, root, epsilon)
		assert.Equal(t,
			crypto.FromECDSAPub(&derivedPriv.PublicKey),
			crypto.FromECDSAPub(derivedPub),
		)
	})

	t.Run("signatures from the derived private key recover to the derived address", func(t *testing.T) {
		epsilon := DeriveEpsilon("solana:localnet", requester, 3, "my-path")
		derivedPriv := derivePrivateKey(t, root, epsilon)

		digest := crypto.Keccak256([]byte("message"))
		sig, err := crypto.Sign(digest, derivedPriv)
		require.NoError(t, err)

		recovered, err := crypto.SigToPub(digest, sig)
		require.NoError(t, err)

		expected, err := DeriveAddress(&root.PublicKey, "solana:localnet", requester, 3, "my-path")
		require.NoError(t, err)
		assert.Equal(t, expected, crypto.PubkeyToAddress(*recovered))
	})
}

func TestParsePublicKey(t *testing.T) {
	root, err := crypto.GenerateKey()
	require.NoError(t, err)

	t.Run("uncompressed hex", func(t *testing.T) {
		uncompressed := crypto.FromECDSAPub(&root.PublicKey)
		parsed, err := ParsePublicKey("0x" + hex.EncodeToString(uncompressed))
		require.NoError(t, err)
		assert.Equal(t, uncompressed, crypto.FromECDSAPub(parsed))
	})

	t.Run("compressed hex", func(t *testing.T) {
		compressed := crypto.CompressPubkey(&root.PublicKey)
		parsed, err := ParsePublicKey(hex.EncodeToString(compressed))
		require.NoError(t, err)
		assert.Equal(t, crypto.FromECDSAPub(&root.PublicKey), crypto.FromECDSAPub(parsed))
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParsePublicKey("not-hex")
		require.Error(t, err)
		_, err = ParsePublicKey("0x0102")
		require.Error(t, err)
	})
}
