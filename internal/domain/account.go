/**
 * @description
 * This file defines the Account entity, the core domain model of the ATM
 * system. An account has an immutable identity assigned by the store, a
 * mutable balance and status, and the login/PIN pair used at the console.
 *
 * @notes
 * - All field-level invariants (non-empty holder name, login and PIN,
 *   non-negative balance, non-empty status) are enforced here by the
 *   constructor and setters. The service layer owns only cross-field and
 *   lookup-dependent rules, such as the amount-vs-balance check.
 * - Balances use shopspring/decimal so money never touches floating point.
 */
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status labels observed in the accounts table. Status is free text, not an
// enforced enumeration; the only label with routing significance is
// StatusAdmin, which sends the session to the administrator menu.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusAdmin    = "Admin"
	StatusDisabled = "Disabled"
	StatusNew      = "New"
)

// UnassignedAccountNumber marks an account that has not been persisted yet.
// The store assigns the real number on first save and it never changes again.
const UnassignedAccountNumber int64 = 0

// Account represents one accountholder's persisted record.
type Account struct {
	accountNumber int64
	holderName    string
	balance       decimal.Decimal
	status        string
	login         string
	pinCode       string
}

// NewAccount builds an account, validating every field-level invariant.
// An empty status defaults to StatusActive. The PIN format rule is not
// applied here: stored rows may predate it, so only creation goes through
// ValidatePIN.
func NewAccount(accountNumber int64, holderName string, balance decimal.Decimal, status, login, pinCode string) (*Account, error) {
	if holderName == "" {
		return nil, fmt.Errorf("%w: holder name cannot be empty", ErrInvalidAccount)
	}
	if login == "" {
		return nil, fmt.Errorf("%w: login cannot be empty", ErrInvalidAccount)
	}
	if pinCode == "" {
		return nil, fmt.Errorf("%w: pin cannot be empty", ErrInvalidAccount)
	}
	if balance.IsNegative() {
		return nil, ErrNegativeBalance
	}
	if status == "" {
		status = StatusActive
	}
	return &Account{
		accountNumber: accountNumber,
		holderName:    holderName,
		balance:       balance,
		status:        status,
		login:         login,
		pinCode:       pinCode,
	}, nil
}

// ValidatePIN checks the creation-time PIN format: exactly five ASCII digits.
func ValidatePIN(pin string) error {
	if len(pin) != 5 {
		return ErrInvalidPIN
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

// AccountNumber returns the store-assigned identifier, or
// UnassignedAccountNumber for an account not yet persisted.
func (a *Account) AccountNumber() int64 { return a.accountNumber }

// HolderName returns the display name of the accountholder.
func (a *Account) HolderName() string { return a.holderName }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Status returns the current status label.
func (a *Account) Status() string { return a.status }

// Login returns the unique authentication handle.
func (a *Account) Login() string { return a.login }

// PINCode returns the stored PIN. Compared by exact string match at login.
func (a *Account) PINCode() string { return a.pinCode }

// IsAdmin reports whether this account routes to the administrator menu.
func (a *Account) IsAdmin() bool { return a.status == StatusAdmin }

// SetBalance replaces the balance, rejecting negative values.
func (a *Account) SetBalance(v decimal.Decimal) error {
	if v.IsNegative() {
		return ErrNegativeBalance
	}
	a.balance = v
	return nil
}

// SetStatus replaces the status label, rejecting the empty string.
func (a *Account) SetStatus(s string) error {
	if s == "" {
		return ErrEmptyStatus
	}
	a.status = s
	return nil
}

// SetAccountNumber assigns the store-generated identifier. Called by the
// persistence path exactly once, when a new row is inserted.
func (a *Account) SetAccountNumber(n int64) {
	a.accountNumber = n
}
