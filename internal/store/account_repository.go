/**
 * @description
 * This file provides the PostgreSQL implementation of the AccountRepository
 * interface. It contains all SQL touching the `accounts` table; one pooled
 * connection serves each operation and no transaction spans service calls.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver.
 * - github.com/shopspring/decimal: Balances cross the wire as numeric text.
 * - The service's internal domain package for the Account entity.
 */
package store

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/atmsystem/atm-service/internal/domain"
)

// PostgresAccountRepository is the PostgreSQL implementation of AccountRepository.
type PostgresAccountRepository struct {
	db *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new instance of PostgresAccountRepository.
func NewPostgresAccountRepository(db *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// accountColumns is the select list shared by every read path. The balance
// is cast to text and parsed with decimal.NewFromString so the value never
// passes through a float.
const accountColumns = `account_number, holder_name, balance::text, status, login, pin_code`

// Save inserts a new account, or updates the row holding the same login.
// The RETURNING clause hands back the store-assigned account number, so the
// caller receives a new fully-populated Account rather than a mutated one.
func (r *PostgresAccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (holder_name, balance, status, login, pin_code)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (login) DO UPDATE
        SET holder_name = EXCLUDED.holder_name,
            balance     = EXCLUDED.balance,
            status      = EXCLUDED.status,
            pin_code    = EXCLUDED.pin_code
        RETURNING ` + accountColumns

	row := r.db.QueryRow(ctx, query,
		account.HolderName(),
		account.Balance(),
		account.Status(),
		account.Login(),
		account.PINCode(),
	)
	saved, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			log.Printf("Save: unique constraint violation on %s", pgErr.ConstraintName)
			return nil, ErrLoginExists
		}
		log.Printf("Save: error inserting account for login %q: %v", account.Login(), err)
		return nil, err
	}
	return saved, nil
}

// Update persists balance and status for an existing row.
func (r *PostgresAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `UPDATE accounts SET balance = $1, status = $2 WHERE account_number = $3`
	tag, err := r.db.Exec(ctx, query, account.Balance(), account.Status(), account.AccountNumber())
	if err != nil {
		log.Printf("Update: error updating account %d: %v", account.AccountNumber(), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Delete removes an account by its number, reporting whether a row went away.
func (r *PostgresAccountRepository) Delete(ctx context.Context, accountNumber int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE account_number = $1`, accountNumber)
	if err != nil {
		log.Printf("Delete: error deleting account %d: %v", accountNumber, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// FindByNumber retrieves an account by its store-assigned number.
func (r *PostgresAccountRepository) FindByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	account, err := scanAccount(r.db.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		log.Printf("FindByNumber: error reading account %d: %v", accountNumber, err)
		return nil, err
	}
	return account, nil
}

// FindByLogin retrieves an account by its unique login.
func (r *PostgresAccountRepository) FindByLogin(ctx context.Context, login string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE login = $1`
	account, err := scanAccount(r.db.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		log.Printf("FindByLogin: error reading account for login %q: %v", login, err)
		return nil, err
	}
	return account, nil
}

// scanAccount maps one accounts row onto a domain.Account.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		number     int64
		holderName string
		balanceStr string
		status     string
		login      string
		pinCode    string
	)
	if err := row.Scan(&number, &holderName, &balanceStr, &status, &login, &pinCode); err != nil {
		return nil, err
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, err
	}
	return domain.NewAccount(number, holderName, balance, status, login, pinCode)
}
