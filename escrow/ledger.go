// Package escrow implements the deposit ledger gating every signature
// request: a singleton program state holding the required deposit and the
// pooled balance, plus per-identity hosting-ledger accounts. All operations
// run inside the caller's database transaction so a failed precondition
// aborts the enclosing protocol operation with no partial effect.
package escrow

import (
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/signet-protocol/signet-node/errors"
	"github.com/signet-protocol/signet-node/store"
)

// Ledger performs escrow bookkeeping against the store models.
type Ledger struct {
	logger zerolog.Logger
}

// NewLedger creates a Ledger.
func NewLedger(logger zerolog.Logger) *Ledger {
	return &Ledger{
		logger: logger.With().Str("component", "escrow").Logger(),
	}
}

// State loads the singleton program state.
func State(tx *gorm.DB) (*store.ProgramState, error) {
	var state store.ProgramState
	if err := tx.First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "program state not initialized")
		}
		return nil, errors.New(errors.CodeInternal, "failed to load program state").WithCause(err)
	}
	return &state, nil
}

// Bootstrap creates the program state once. Subsequent calls return the
// existing state unchanged; admin and network id are immutable after this.
func Bootstrap(tx *gorm.DB, admin solana.PublicKey, networkID string, requiredDeposit uint64) (*store.ProgramState, error) {
	state, err := State(tx)
	if err == nil {
		return state, nil
	}
	if !errors.IsCode(err, errors.CodeNotFound) {
		return nil, err
	}

	state = &store.ProgramState{
		Admin:           admin.String(),
		NetworkID:       networkID,
		RequiredDeposit: requiredDeposit,
	}
	if err := tx.Create(state).Error; err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to create program state").WithCause(err)
	}
	return state, nil
}

// RequiredDeposit returns the deposit currently collected per request.
func (l *Ledger) RequiredDeposit(tx *gorm.DB) (uint64, error) {
	state, err := State(tx)
	if err != nil {
		return 0, err
	}
	return state.RequiredDeposit, nil
}

// Configure replaces the required deposit. Admin only. Returns the previous
// deposit for the emitted record.
func (l *Ledger) Configure(tx *gorm.DB, caller solana.PublicKey, newDeposit uint64) (uint64, error) {
	state, err := State(tx)
	if err != nil {
		return 0, err
	}
	if caller.String() != state.Admin {
		return 0, errors.New(errors.CodeUnauthorized, "caller is not the admin")
	}

	oldDeposit := state.RequiredDeposit
	state.RequiredDeposit = newDeposit
	if err := tx.Save(state).Error; err != nil {
		return 0, errors.New(errors.CodeInternal, "failed to update required deposit").WithCause(err)
	}

	l.logger.Info().
		Uint64("old_deposit", oldDeposit).
		Uint64("new_deposit", newDeposit).
		Msg("required deposit updated")
	return oldDeposit, nil
}

// Collect moves exactly the required deposit from the payer to the pool.
// The amount is never caller-specified. Fails with InsufficientDeposit when
// the payer's balance cannot cover it.
func (l *Ledger) Collect(tx *gorm.DB, payer solana.PublicKey) (uint64, error) {
	state, err := State(tx)
	if err != nil {
		return 0, err
	}

	account, err := loadAccount(tx, payer.String())
	if err != nil {
		return 0, err
	}
	if account == nil || account.Balance < state.RequiredDeposit {
		return 0, errors.New(errors.CodeInsufficientDeposit, "payer cannot cover the required deposit").
			WithContext("payer", payer.String()).
			WithContext("required", state.RequiredDeposit)
	}

	account.Balance -= state.RequiredDeposit
	if err := tx.Save(account).Error; err != nil {
		return 0, errors.New(errors.CodeInternal, "failed to debit payer").WithCause(err)
	}

	state.PoolBalance += state.RequiredDeposit
	if err := tx.Save(state).Error; err != nil {
		return 0, errors.New(errors.CodeInternal, "failed to credit pool").WithCause(err)
	}

	l.logger.Debug().
		Str("payer", payer.String()).
		Uint64("deposit", state.RequiredDeposit).
		Uint64("pool_balance", state.PoolBalance).
		Msg("deposit collected")
	return state.RequiredDeposit, nil
}

// Withdraw moves amount from the pool to the recipient. Admin only. Fails
// with InsufficientFunds when the pool cannot cover it and InvalidRecipient
// for the zero identity; both sides of the move commit together or not at all.
func (l *Ledger) Withdraw(tx *gorm.DB, caller, recipient solana.PublicKey, amount uint64) error {
	state, err := State(tx)
	if err != nil {
		return err
	}
	if caller.String() != state.Admin {
		return errors.New(errors.CodeUnauthorized, "caller is not the admin")
	}
	if state.PoolBalance < amount {
		return errors.New(errors.CodeInsufficientFunds, "pool balance cannot cover withdrawal").
			WithContext("pool_balance", state.PoolBalance).
			WithContext("amount", amount)
	}
	if recipient.IsZero() {
		return errors.New(errors.CodeInvalidRecipient, "withdrawal recipient is the zero identity")
	}

	state.PoolBalance -= amount
	if err := tx.Save(state).Error; err != nil {
		return errors.New(errors.CodeInternal, "failed to debit pool").WithCause(err)
	}
	if _, err := credit(tx, recipient.String(), amount); err != nil {
		return err
	}

	l.logger.Info().
		Str("recipient", recipient.String()).
		Uint64("amount", amount).
		Uint64("pool_balance", state.PoolBalance).
		Msg("funds withdrawn")
	return nil
}

// Fund credits a hosting-ledger account, creating it if needed. Returns the
// new balance.
func (l *Ledger) Fund(tx *gorm.DB, recipient solana.PublicKey, amount uint64) (uint64, error) {
	if recipient.IsZero() {
		return 0, errors.New(errors.CodeInvalidRecipient, "funding recipient is the zero identity")
	}
	return credit(tx, recipient.String(), amount)
}

// Balance returns an account balance; unknown accounts hold zero.
func (l *Ledger) Balance(tx *gorm.DB, identity solana.PublicKey) (uint64, error) {
	account, err := loadAccount(tx, identity.String())
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, nil
	}
	return account.Balance, nil
}

// loadAccount returns the account row or nil when absent.
func loadAccount(tx *gorm.DB, address string) (*store.Account, error) {
	var account store.Account
	err := tx.Where("address = ?", address).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to load account").WithCause(err)
	}
	return &account, nil
}

func credit(tx *gorm.DB, address string, amount uint64) (uint64, error) {
	account, err := loadAccount(tx, address)
	if err != nil {
		return 0, err
	}
	if account == nil {
		account = &store.Account{Address: address}
	}
	account.Balance += amount
	if err := tx.Save(account).Error; err != nil {
		return 0, errors.New(errors.CodeInternal, "failed to credit account").WithCause(err)
	}
	return account.Balance, nil
}
