// Package store contains the GORM-backed SQLite models owned by signetd.
//
// Database structure (database file: signet.db):
//
//	program_states   singleton escrow/admin record
//	accounts         per-identity balances of the hosting ledger
//	event_records    append-only protocol record log
package store

import (
	"gorm.io/gorm"
)

// ProgramState is the singleton escrow record. Created once at bootstrap;
// only RequiredDeposit and PoolBalance change afterwards.
type ProgramState struct {
	gorm.Model
	Admin           string `gorm:"size:64;not null"` // Base58 identity authorized for configure/withdraw
	NetworkID       string `gorm:"not null"`         // Chain identifier of this escrow instance, e.g. "solana:localnet"
	RequiredDeposit uint64 `gorm:"not null"`         // Deposit collected on every signature request
	PoolBalance     uint64 `gorm:"not null"`         // Funds held by the protocol instance; never negative
}

// Account is one hosting-ledger balance. Requesters and fee payers are
// funded here before they can place requests.
type Account struct {
	gorm.Model
	Address string `gorm:"uniqueIndex;size:64;not null"` // Base58 identity
	Balance uint64 `gorm:"not null"`
}

// EventRecord is one emitted, append-only protocol record. The primary key
// doubles as the replay cursor; rows are never updated after creation.
type EventRecord struct {
	gorm.Model
	Type string `gorm:"index;not null"` // e.g. "signature.requested"
	Data []byte `gorm:"not null"`       // JSON payload of the record
}
