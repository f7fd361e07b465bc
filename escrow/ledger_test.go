package escrow

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/signet-protocol/signet-node/db"
	"github.com/signet-protocol/signet-node/errors"
)

func setupLedger(t *testing.T) (*db.DB, *Ledger, solana.PublicKey) {
	t.Helper()

	database, err := db.OpenInMemoryDB(true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	admin := solana.NewWallet().PublicKey()
	err = database.Transaction(func(tx *gorm.DB) error {
		_, err := Bootstrap(tx, admin, "solana:localnet", 1000)
		return err
	})
	require.NoError(t, err)

	return database, NewLedger(zerolog.Nop()), admin
}

func TestBootstrap(t *testing.T) {
	database, _, admin := setupLedger(t)

	t.Run("state holds the bootstrap values", func(t *testing.T) {
		state, err := State(database.Client())
		require.NoError(t, err)
		assert.Equal(t, admin.String(), state.Admin)
		assert.Equal(t, "solana:localnet", state.NetworkID)
		assert.Equal(t, uint64(1000), state.RequiredDeposit)
		assert.Equal(t, uint64(0), state.PoolBalance)
	})

	t.Run("second bootstrap is a no-op", func(t *testing.T) {
		other := solana.NewWallet().PublicKey()
		state, err := Bootstrap(database.Client(), other, "solana:mainnet", 5)
		require.NoError(t, err)
		assert.Equal(t, admin.String(), state.Admin)
		assert.Equal(t, uint64(1000), state.RequiredDeposit)
	})
}

func TestStateNotInitialized(t *testing.T) {
	database, err := db.OpenInMemoryDB(true)
	require.NoError(t, err)
	defer database.Close()

	_, err = State(database.Client())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestConfigure(t *testing.T) {
	database, ledger, admin := setupLedger(t)

	t.Run("admin can change the deposit", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			old, err := ledger.Configure(tx, admin, 2500)
			require.NoError(t, err)
			assert.Equal(t, uint64(1000), old)
			return nil
		})
		require.NoError(t, err)

		deposit, err := ledger.RequiredDeposit(database.Client())
		require.NoError(t, err)
		assert.Equal(t, uint64(2500), deposit)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			_, err := ledger.Configure(tx, solana.NewWallet().PublicKey(), 1)
			return err
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))

		deposit, err := ledger.RequiredDeposit(database.Client())
		require.NoError(t, err)
		assert.Equal(t, uint64(2500), deposit)
	})
}

func TestCollect(t *testing.T) {
	database, ledger, _ := setupLedger(t)
	payer := solana.NewWallet().PublicKey()

	t.Run("unfunded payer cannot cover the deposit", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			_, err := ledger.Collect(tx, payer)
			return err
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInsufficientDeposit))
	})

	t.Run("one unit short still fails", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			_, err := ledger.Fund(tx, payer, 999)
			return err
		})
		require.NoError(t, err)

		err = database.Transaction(func(tx *gorm.DB) error {
			_, err := ledger.Collect(tx, payer)
			return err
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInsufficientDeposit))

		balance, err := ledger.Balance(database.Client(), payer)
		require.NoError(t, err)
		assert.Equal(t, uint64(999), balance)
	})

	t.Run("exact balance moves to the pool", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			_, err := ledger.Fund(tx, payer, 1)
			return err
		})
		require.NoError(t, err)

		err = database.Transaction(func(tx *gorm.DB) error {
			collected, err := ledger.Collect(tx, payer)
			require.NoError(t, err)
			assert.Equal(t, uint64(1000), collected)
			return nil
		})
		require.NoError(t, err)

		balance, err := ledger.Balance(database.Client(), payer)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), balance)

		state, err := State(database.Client())
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), state.PoolBalance)
	})
}

func TestWithdraw(t *testing.T) {
	database, ledger, admin := setupLedger(t)
	payer := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()

	// Seed the pool with one collected deposit.
	err := database.Transaction(func(tx *gorm.DB) error {
		if _, err := ledger.Fund(tx, payer, 1000); err != nil {
			return err
		}
		_, err := ledger.Collect(tx, payer)
		return err
	})
	require.NoError(t, err)

	t.Run("non-admin is rejected", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			return ledger.Withdraw(tx, solana.NewWallet().PublicKey(), recipient, 1)
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
	})

	t.Run("amount above the pool balance is rejected", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			return ledger.Withdraw(tx, admin, recipient, 1001)
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInsufficientFunds))
	})

	t.Run("zero recipient is rejected", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			return ledger.Withdraw(tx, admin, solana.PublicKey{}, 1)
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidRecipient))
	})

	t.Run("debit and credit land together", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			return ledger.Withdraw(tx, admin, recipient, 600)
		})
		require.NoError(t, err)

		state, err := State(database.Client())
		require.NoError(t, err)
		assert.Equal(t, uint64(400), state.PoolBalance)

		balance, err := ledger.Balance(database.Client(), recipient)
		require.NoError(t, err)
		assert.Equal(t, uint64(600), balance)
	})
}

func TestFundAndBalance(t *testing.T) {
	database, ledger, _ := setupLedger(t)
	identity := solana.NewWallet().PublicKey()

	t.Run("unknown accounts hold zero", func(t *testing.T) {
		balance, err := ledger.Balance(database.Client(), identity)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), balance)
	})

	t.Run("funding accumulates", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			balance, err := ledger.Fund(tx, identity, 300)
			require.NoError(t, err)
			assert.Equal(t, uint64(300), balance)

			balance, err = ledger.Fund(tx, identity, 200)
			require.NoError(t, err)
			assert.Equal(t, uint64(500), balance)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("zero identity cannot be funded", func(t *testing.T) {
		err := database.Transaction(func(tx *gorm.DB) error {
			_, err := ledger.Fund(tx, solana.PublicKey{}, 1)
			return err
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidRecipient))
	})
}
