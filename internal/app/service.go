/**
 * @description
 * This file contains the core business logic of the ATM system, implemented
 * as an `AccountService`. It is the single authority for account state
 * transitions: every create, update, withdraw, deposit and delete runs one
 * validate-then-commit step against the repository.
 *
 * @notes
 * - The repository is a dumb persistence surface; cross-field and
 *   lookup-dependent rules (duplicate login, amount vs. balance) live here,
 *   while field-level invariants live on the Account entity.
 * - No locking spans the read-then-write window of withdraw/deposit/update;
 *   the system accepts the lost-update race between concurrent sessions.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/atmsystem/atm-service/internal/domain"
	"github.com/atmsystem/atm-service/internal/store"
)

var (
	// ErrInvalidCredentials covers both a missing login and a wrong PIN;
	// the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid login or pin")

	// ErrInvalidAmount rejects non-positive amounts and amounts above the
	// per-transaction cap.
	ErrInvalidAmount = errors.New("amount must be positive and not exceed 1,000,000")

	// ErrInsufficientFunds rejects a withdrawal larger than the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// maxTransactionAmount caps a single withdrawal or deposit.
var maxTransactionAmount = decimal.NewFromInt(1_000_000)

// AccountService applies the business rules for all account operations.
type AccountService struct {
	repo store.AccountRepository
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(repo store.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// CreateAccount validates the creation inputs, rejects a taken login, and
// persists a new account. The returned account is re-read from the store so
// the caller observes the store-assigned account number. An empty status
// defaults to Active.
func (s *AccountService) CreateAccount(ctx context.Context, login, pin, name string, balance decimal.Decimal, status string) (*domain.Account, error) {
	account, err := domain.NewAccount(domain.UnassignedAccountNumber, name, balance, status, login, pin)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePIN(pin); err != nil {
		return nil, err
	}

	// First line of defense; the store's unique index on login is the second.
	_, err = s.repo.FindByLogin(ctx, login)
	if err == nil {
		return nil, store.ErrLoginExists
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		return nil, fmt.Errorf("could not check for existing login: %w", err)
	}

	if _, err := s.repo.Save(ctx, account); err != nil {
		return nil, err
	}
	created, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created account: %w", err)
	}
	log.Printf("CreateAccount: created account %d for login %q", created.AccountNumber(), login)
	return created, nil
}

// FindAccount authenticates a login/PIN pair by exact string match against
// the stored row. A missing login and a wrong PIN both return
// ErrInvalidCredentials.
func (s *AccountService) FindAccount(ctx context.Context, login, pin string) (*domain.Account, error) {
	account, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if account.PINCode() != pin {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// FindByNumber retrieves an account by its store-assigned number.
func (s *AccountService) FindByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	return s.repo.FindByNumber(ctx, accountNumber)
}

// UpdateAccount replaces the balance and status of an existing account.
func (s *AccountService) UpdateAccount(ctx context.Context, accountNumber int64, newBalance decimal.Decimal, newStatus string) (*domain.Account, error) {
	account, err := s.repo.FindByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if err := account.SetBalance(newBalance); err != nil {
		return nil, err
	}
	if err := account.SetStatus(newStatus); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	log.Printf("UpdateAccount: account %d set to balance %s, status %q", accountNumber, newBalance, newStatus)
	return account, nil
}

// DeleteAccount removes an account permanently. Deleting a number with no
// account behind it is not an error; it just reports false.
func (s *AccountService) DeleteAccount(ctx context.Context, accountNumber int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, accountNumber)
	if err != nil {
		return false, err
	}
	if deleted {
		log.Printf("DeleteAccount: removed account %d", accountNumber)
	}
	return deleted, nil
}

// Withdraw decrements the balance by amount. The amount must be positive,
// within the per-transaction cap, and covered by the current balance; on any
// failure the balance is left untouched.
func (s *AccountService) Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) error {
	account, err := s.repo.FindByNumber(ctx, accountNumber)
	if err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if account.Balance().LessThan(amount) {
		return ErrInsufficientFunds
	}
	if err := account.SetBalance(account.Balance().Sub(amount)); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}
	log.Printf("Withdraw: %s from account %d, new balance %s", amount, accountNumber, account.Balance())
	return nil
}

// Deposit increments the balance by amount, subject to the same amount rules
// as Withdraw.
func (s *AccountService) Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) error {
	account, err := s.repo.FindByNumber(ctx, accountNumber)
	if err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := account.SetBalance(account.Balance().Add(amount)); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}
	log.Printf("Deposit: %s to account %d, new balance %s", amount, accountNumber, account.Balance())
	return nil
}

// GetBalance returns the current balance of an account.
func (s *AccountService) GetBalance(ctx context.Context, accountNumber int64) (decimal.Decimal, error) {
	account, err := s.repo.FindByNumber(ctx, accountNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance(), nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(maxTransactionAmount) {
		return ErrInvalidAmount
	}
	return nil
}
