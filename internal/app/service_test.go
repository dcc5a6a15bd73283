package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atmsystem/atm-service/internal/domain"
	"github.com/atmsystem/atm-service/internal/store"
)

// memRepo is an in-memory AccountRepository. It hands out copies, never its
// internal pointers, matching the real store's no-aliasing contract.
type memRepo struct {
	accounts   map[int64]*domain.Account
	nextNumber int64
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: make(map[int64]*domain.Account)}
}

func (m *memRepo) clone(a *domain.Account) *domain.Account {
	cp, err := domain.NewAccount(a.AccountNumber(), a.HolderName(), a.Balance(), a.Status(), a.Login(), a.PINCode())
	if err != nil {
		panic(err)
	}
	return cp
}

func (m *memRepo) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	// Upsert by unique login, like the real store.
	for number, existing := range m.accounts {
		if existing.Login() == account.Login() {
			cp := m.clone(account)
			cp.SetAccountNumber(number)
			m.accounts[number] = cp
			return m.clone(cp), nil
		}
	}
	m.nextNumber++
	cp := m.clone(account)
	cp.SetAccountNumber(m.nextNumber)
	m.accounts[m.nextNumber] = cp
	return m.clone(cp), nil
}

func (m *memRepo) Update(ctx context.Context, account *domain.Account) error {
	if _, ok := m.accounts[account.AccountNumber()]; !ok {
		return store.ErrAccountNotFound
	}
	m.accounts[account.AccountNumber()] = m.clone(account)
	return nil
}

func (m *memRepo) Delete(ctx context.Context, accountNumber int64) (bool, error) {
	if _, ok := m.accounts[accountNumber]; !ok {
		return false, nil
	}
	delete(m.accounts, accountNumber)
	return true, nil
}

func (m *memRepo) FindByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	a, ok := m.accounts[accountNumber]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return m.clone(a), nil
}

func (m *memRepo) FindByLogin(ctx context.Context, login string) (*domain.Account, error) {
	for _, a := range m.accounts {
		if a.Login() == login {
			return m.clone(a), nil
		}
	}
	return nil, store.ErrAccountNotFound
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func mustCreate(t *testing.T, svc *AccountService, login, pin, name, balance string) *domain.Account {
	t.Helper()
	account, err := svc.CreateAccount(context.Background(), login, pin, name, dec(t, balance), domain.StatusActive)
	if err != nil {
		t.Fatalf("CreateAccount(%q) returned error: %v", login, err)
	}
	return account
}

func TestCreateAccount_AssignsStoreNumber(t *testing.T) {
	svc := NewAccountService(newMemRepo())

	account := mustCreate(t, svc, "user1", "12345", "User One", "1000")
	if account.Login() != "user1" {
		t.Fatalf("expected login %q, got %q", "user1", account.Login())
	}
	if account.AccountNumber() <= 0 {
		t.Fatalf("expected store-assigned positive account number, got %d", account.AccountNumber())
	}
	if !account.Balance().Equal(dec(t, "1000")) {
		t.Fatalf("expected balance 1000, got %s", account.Balance())
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	tests := []struct {
		name    string
		login   string
		pin     string
		holder  string
		balance string
		wantErr error
	}{
		{
			name:    "rejects empty login",
			login:   "",
			pin:     "12345",
			holder:  "User",
			balance: "100",
			wantErr: domain.ErrInvalidAccount,
		},
		{
			name:    "rejects empty name",
			login:   "user1",
			pin:     "12345",
			holder:  "",
			balance: "100",
			wantErr: domain.ErrInvalidAccount,
		},
		{
			name:    "rejects short pin",
			login:   "user1",
			pin:     "1234",
			holder:  "User",
			balance: "100",
			wantErr: domain.ErrInvalidPIN,
		},
		{
			name:    "rejects long pin",
			login:   "user1",
			pin:     "123456",
			holder:  "User",
			balance: "100",
			wantErr: domain.ErrInvalidPIN,
		},
		{
			name:    "rejects non-digit pin",
			login:   "user1",
			pin:     "12a45",
			holder:  "User",
			balance: "100",
			wantErr: domain.ErrInvalidPIN,
		},
		{
			name:    "rejects negative initial balance",
			login:   "user1",
			pin:     "12345",
			holder:  "User",
			balance: "-1",
			wantErr: domain.ErrNegativeBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccountService(newMemRepo())
			_, err := svc.CreateAccount(context.Background(), tt.login, tt.pin, tt.holder, dec(t, tt.balance), domain.StatusActive)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateAccount_RejectsDuplicateLogin(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	mustCreate(t, svc, "user1", "12345", "User One", "100")

	_, err := svc.CreateAccount(context.Background(), "user1", "54321", "Other User", dec(t, "50"), domain.StatusActive)
	if !errors.Is(err, store.ErrLoginExists) {
		t.Fatalf("expected ErrLoginExists, got %v", err)
	}
}

func TestFindAccount(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	mustCreate(t, svc, "user1", "12345", "User One", "100")

	tests := []struct {
		name  string
		login string
		pin   string
		want  bool
	}{
		{name: "exact match succeeds", login: "user1", pin: "12345", want: true},
		{name: "wrong pin fails", login: "user1", pin: "12344", want: false},
		{name: "unknown login fails", login: "ghost", pin: "12345", want: false},
		{name: "pin is not normalized", login: "user1", pin: " 12345", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := svc.FindAccount(context.Background(), tt.login, tt.pin)
			if tt.want {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if account.Login() != tt.login {
					t.Fatalf("expected login %q, got %q", tt.login, account.Login())
				}
				return
			}
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestWithdraw_NeverLeavesNegativeBalance(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	account := mustCreate(t, svc, "user1", "12345", "User One", "100")

	err := svc.Withdraw(context.Background(), account.AccountNumber(), dec(t, "100.01"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, err := svc.GetBalance(context.Background(), account.AccountNumber())
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if !balance.Equal(dec(t, "100")) {
		t.Fatalf("expected balance unchanged at 100, got %s", balance)
	}
}

func TestWithdraw_ExactBalanceReachesZero(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	account := mustCreate(t, svc, "user1", "12345", "User One", "100")

	if err := svc.Withdraw(context.Background(), account.AccountNumber(), dec(t, "100")); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	balance, err := svc.GetBalance(context.Background(), account.AccountNumber())
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected balance exactly 0, got %s", balance)
	}
}

func TestWithdrawAndDeposit_AmountValidation(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{name: "zero amount", amount: "0"},
		{name: "negative amount", amount: "-50"},
		{name: "amount above cap", amount: "1000000.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccountService(newMemRepo())
			account := mustCreate(t, svc, "user1", "12345", "User One", "1000")

			if err := svc.Withdraw(context.Background(), account.AccountNumber(), dec(t, tt.amount)); !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("Withdraw: expected ErrInvalidAmount, got %v", err)
			}
			if err := svc.Deposit(context.Background(), account.AccountNumber(), dec(t, tt.amount)); !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("Deposit: expected ErrInvalidAmount, got %v", err)
			}
			balance, err := svc.GetBalance(context.Background(), account.AccountNumber())
			if err != nil {
				t.Fatalf("GetBalance returned error: %v", err)
			}
			if !balance.Equal(dec(t, "1000")) {
				t.Fatalf("expected balance unchanged at 1000, got %s", balance)
			}
		})
	}
}

func TestDepositThenWithdraw_RoundTrip(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	account := mustCreate(t, svc, "user1", "12345", "User One", "333.33")

	if err := svc.Deposit(context.Background(), account.AccountNumber(), dec(t, "66.67")); err != nil {
		t.Fatalf("Deposit returned error: %v", err)
	}
	if err := svc.Withdraw(context.Background(), account.AccountNumber(), dec(t, "66.67")); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	balance, err := svc.GetBalance(context.Background(), account.AccountNumber())
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if !balance.Equal(dec(t, "333.33")) {
		t.Fatalf("expected balance back at 333.33, got %s", balance)
	}
}

func TestWithdrawDepositGetBalance_Scenario(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	account := mustCreate(t, svc, "user1", "12345", "User", "1000")
	ctx := context.Background()

	if err := svc.Withdraw(ctx, account.AccountNumber(), dec(t, "500")); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	balance, err := svc.GetBalance(ctx, account.AccountNumber())
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if !balance.Equal(dec(t, "500")) {
		t.Fatalf("expected balance 500 after withdraw, got %s", balance)
	}

	if err := svc.Deposit(ctx, account.AccountNumber(), dec(t, "250")); err != nil {
		t.Fatalf("Deposit returned error: %v", err)
	}
	balance, err = svc.GetBalance(ctx, account.AccountNumber())
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if !balance.Equal(dec(t, "750")) {
		t.Fatalf("expected balance 750 after deposit, got %s", balance)
	}
}

func TestOperations_UnknownAccount(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	ctx := context.Background()

	if err := svc.Withdraw(ctx, 99, dec(t, "10")); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("Withdraw: expected ErrAccountNotFound, got %v", err)
	}
	if err := svc.Deposit(ctx, 99, dec(t, "10")); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("Deposit: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.GetBalance(ctx, 99); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("GetBalance: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.FindByNumber(ctx, 99); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("FindByNumber: expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	account := mustCreate(t, svc, "user1", "12345", "User One", "1000")
	ctx := context.Background()

	updated, err := svc.UpdateAccount(ctx, account.AccountNumber(), dec(t, "2000"), domain.StatusInactive)
	if err != nil {
		t.Fatalf("UpdateAccount returned error: %v", err)
	}
	if !updated.Balance().Equal(dec(t, "2000")) {
		t.Fatalf("expected balance 2000, got %s", updated.Balance())
	}
	if updated.Status() != domain.StatusInactive {
		t.Fatalf("expected status %q, got %q", domain.StatusInactive, updated.Status())
	}

	if _, err := svc.UpdateAccount(ctx, 99, dec(t, "2000"), domain.StatusInactive); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for unknown account, got %v", err)
	}
	if _, err := svc.UpdateAccount(ctx, account.AccountNumber(), dec(t, "-1"), domain.StatusInactive); !errors.Is(err, domain.ErrNegativeBalance) {
		t.Fatalf("expected ErrNegativeBalance, got %v", err)
	}
	if _, err := svc.UpdateAccount(ctx, account.AccountNumber(), dec(t, "2000"), ""); !errors.Is(err, domain.ErrEmptyStatus) {
		t.Fatalf("expected ErrEmptyStatus, got %v", err)
	}
}

func TestDeleteAccount_Idempotent(t *testing.T) {
	svc := NewAccountService(newMemRepo())
	ctx := context.Background()

	deleted, err := svc.DeleteAccount(ctx, 99)
	if err != nil {
		t.Fatalf("DeleteAccount on unknown number returned error: %v", err)
	}
	if deleted {
		t.Fatal("expected false for unknown account number")
	}

	account := mustCreate(t, svc, "user1", "12345", "User One", "100")
	deleted, err = svc.DeleteAccount(ctx, account.AccountNumber())
	if err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}
	if !deleted {
		t.Fatal("expected true for existing account")
	}
	if _, err := svc.FindByNumber(ctx, account.AccountNumber()); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound after delete, got %v", err)
	}
}
