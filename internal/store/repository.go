/**
 * @description
 * This file defines the interface for the data access layer. The service
 * depends on this interface, not on the concrete PostgreSQL implementation,
 * which keeps the business rules testable against in-memory stubs.
 *
 * @notes
 * - Persistence operations return new, fully-populated values instead of
 *   mutating the caller's Account in place, so no aliasing crosses the
 *   repository boundary.
 */
package store

import (
	"context"
	"errors"

	"github.com/atmsystem/atm-service/internal/domain"
)

var (
	// ErrAccountNotFound is returned by lookups with no matching row, and
	// by Update when the targeted row has disappeared.
	ErrAccountNotFound = errors.New("account not found")

	// ErrLoginExists surfaces the accounts_login_key unique violation.
	ErrLoginExists = errors.New("login already exists")
)

// AccountRepository defines the contract for persisting accounts. The store
// holds no business logic; every rule lives in the service and the entity.
type AccountRepository interface {
	// Save inserts the account, or updates the existing row with the same
	// login (upsert). It returns the persisted account carrying the
	// store-assigned account number.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// Update persists balance and status for an existing row. Zero rows
	// affected is reported as ErrAccountNotFound.
	Update(ctx context.Context, account *domain.Account) error

	// Delete removes the row, reporting whether one was actually removed.
	Delete(ctx context.Context, accountNumber int64) (bool, error)

	FindByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error)
	FindByLogin(ctx context.Context, login string) (*domain.Account, error)
}
