/**
 * @description
 * This file implements the interactive session loop: the login prompt, the
 * customer menu (withdraw, deposit, balance) and the administrator menu
 * (create, delete, update, search). Every menu action delegates to exactly
 * one service operation; service errors are printed and the loop resumes,
 * so no error is fatal to the process.
 *
 * @notes
 * - The menu wording and option numbering (including the gap at option 2 of
 *   the customer menu) are part of the operator-facing contract and are
 *   kept as-is.
 * - Each successful login gets a uuid correlation id stamped on the audit
 *   log lines written during that menu session.
 */
package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atmsystem/atm-service/internal/app"
	"github.com/atmsystem/atm-service/internal/domain"
	"github.com/atmsystem/atm-service/internal/store"
)

// maxPromptAmount mirrors the service's per-transaction cap; amounts are
// rejected at the prompt before the service is ever called.
var maxPromptAmount = decimal.NewFromInt(1_000_000)

// AccountOperations is the slice of the account service the console needs.
type AccountOperations interface {
	CreateAccount(ctx context.Context, login, pin, name string, balance decimal.Decimal, status string) (*domain.Account, error)
	FindAccount(ctx context.Context, login, pin string) (*domain.Account, error)
	FindByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountNumber int64, newBalance decimal.Decimal, newStatus string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountNumber int64) (bool, error)
	Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) error
	Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) error
	GetBalance(ctx context.Context, accountNumber int64) (decimal.Decimal, error)
}

// Session drives the console front-end against the account service.
type Session struct {
	service AccountOperations
	console Console
}

// NewSession creates a new console session loop.
func NewSession(service AccountOperations, console Console) *Session {
	return &Session{service: service, console: console}
}

// Run prompts for credentials until the operator types "exit" or the input
// stream ends. A successful login routes to the menu matching the account's
// status: "Admin" gets the administrator menu, everything else the customer
// menu.
func (s *Session) Run(ctx context.Context) {
	for {
		s.console.WriteLine("Welcome to the ATM System - Version 1.0")
		login, err := s.prompt("Please enter your login: ")
		if err != nil {
			return
		}
		if login == "" {
			s.console.WriteLine("Login cannot be empty. Please try again.")
			continue
		}
		if strings.EqualFold(login, "exit") {
			s.console.WriteLine("Exiting application. Goodbye!")
			return
		}
		pin, err := s.prompt("Please enter your PIN: ")
		if err != nil {
			return
		}
		if pin == "" {
			s.console.WriteLine("PIN cannot be empty. Please try again.")
			continue
		}

		account, err := s.service.FindAccount(ctx, login, pin)
		if err != nil {
			if errors.Is(err, app.ErrInvalidCredentials) {
				s.console.WriteLine("Invalid login or pin. Try again.")
			} else {
				s.console.WriteLine("Error: " + err.Error())
			}
			continue
		}

		sessionID := uuid.New()
		log.Printf("session %s: login %q authenticated for account %d", sessionID, login, account.AccountNumber())
		if account.IsAdmin() {
			s.adminMenu(ctx, sessionID, account.AccountNumber())
		} else {
			s.customerMenu(ctx, sessionID, account.AccountNumber())
		}
		log.Printf("session %s: ended", sessionID)
	}
}

func (s *Session) customerMenu(ctx context.Context, sessionID uuid.UUID, accountNumber int64) {
	for {
		s.console.WriteLine("\nCustomer Menu:")
		s.console.WriteLine("1----Withdraw Cash")
		s.console.WriteLine("3----Deposit Cash")
		s.console.WriteLine("4----Display Balance")
		s.console.WriteLine("5----Exit")
		s.console.WriteLine("6----Clear Screen")
		s.console.WriteLine("7----Show Help")
		choice, err := s.prompt("Select an option: ")
		if err != nil {
			return
		}
		if choice == "" {
			s.console.WriteLine("Option cannot be empty. Please try again.")
			continue
		}

		switch choice {
		case "1":
			input, err := s.prompt("Enter the withdrawal amount: ")
			if err != nil {
				return
			}
			amount, ok := parseAmount(input)
			if !ok {
				s.console.WriteLine("Invalid amount. Must be positive and not exceed 1,000,000.")
				break
			}
			if err := s.service.Withdraw(ctx, accountNumber, amount); err != nil {
				s.console.WriteLine("Error: " + err.Error())
				break
			}
			log.Printf("session %s: withdraw %s from account %d", sessionID, amount, accountNumber)
			s.console.WriteLine(fmt.Sprintf("[%s] Withdraw: %s from account %d", timestamp(), amount.StringFixed(2), accountNumber))
			s.showBalance(ctx, accountNumber, "Cash Successfully Withdrawn. Balance: ")

		case "3":
			input, err := s.prompt("Enter the cash amount to deposit: ")
			if err != nil {
				return
			}
			amount, ok := parseAmount(input)
			if !ok {
				s.console.WriteLine("Invalid amount. Must be positive and not exceed 1,000,000.")
				break
			}
			if err := s.service.Deposit(ctx, accountNumber, amount); err != nil {
				s.console.WriteLine("Error: " + err.Error())
				break
			}
			log.Printf("session %s: deposit %s to account %d", sessionID, amount, accountNumber)
			s.console.WriteLine(fmt.Sprintf("[%s] Deposit: %s to account %d", timestamp(), amount.StringFixed(2), accountNumber))
			s.showBalance(ctx, accountNumber, "Cash Deposited Successfully. Balance: ")

		case "4":
			s.showBalance(ctx, accountNumber, "Balance: ")

		case "5":
			s.console.WriteLine("Thank you for using the ATM. Goodbye!")
			return

		case "6":
			s.console.Clear()
			s.console.WriteLine("Screen cleared.")

		case "7":
			s.console.WriteLine("\nHelp:")
			s.console.WriteLine("1 - Withdraw Cash")
			s.console.WriteLine("3 - Deposit Cash")
			s.console.WriteLine("4 - Display Balance")
			s.console.WriteLine("5 - Exit")
			s.console.WriteLine("6 - Clear Screen")
			s.console.WriteLine("7 - Show Help")

		default:
			s.console.WriteLine("Invalid option.")
		}
	}
}

func (s *Session) adminMenu(ctx context.Context, sessionID uuid.UUID, accountNumber int64) {
	for {
		s.console.WriteLine("\nAdmin Menu:")
		s.console.WriteLine("1----Create New Account")
		s.console.WriteLine("2----Delete Existing Account")
		s.console.WriteLine("3----Update Account")
		s.console.WriteLine("4----Search for Account")
		s.console.WriteLine("5----Exit")
		choice, err := s.prompt("Select an option: ")
		if err != nil {
			return
		}
		if choice == "" {
			s.console.WriteLine("Option cannot be empty. Please try again.")
			continue
		}

		switch choice {
		case "1":
			login, err := s.prompt("Enter login: ")
			if err != nil {
				return
			}
			if login == "" {
				s.console.WriteLine("Login cannot be empty.")
				break
			}
			pin, err := s.prompt("Enter PIN (5 digits): ")
			if err != nil {
				return
			}
			if pin == "" {
				s.console.WriteLine("PIN cannot be empty.")
				break
			}
			name, err := s.prompt("Enter name: ")
			if err != nil {
				return
			}
			if name == "" {
				s.console.WriteLine("Name cannot be empty.")
				break
			}
			input, err := s.prompt("Enter initial balance: ")
			if err != nil {
				return
			}
			balance, err := decimal.NewFromString(input)
			if err != nil || balance.IsNegative() {
				s.console.WriteLine("Invalid balance.")
				break
			}
			created, err := s.service.CreateAccount(ctx, login, pin, name, balance, domain.StatusActive)
			if err != nil {
				s.console.WriteLine("Error: " + err.Error())
				break
			}
			log.Printf("session %s: created account %d", sessionID, created.AccountNumber())
			s.console.WriteLine(fmt.Sprintf("Account created with number %d", created.AccountNumber()))

		case "2":
			number, ok := s.promptAccountNumber("Enter account number to delete: ")
			if !ok {
				break
			}
			deleted, err := s.service.DeleteAccount(ctx, number)
			if err != nil {
				s.console.WriteLine("Error: " + err.Error())
				break
			}
			if deleted {
				log.Printf("session %s: deleted account %d", sessionID, number)
				s.console.WriteLine("Account deleted successfully.")
			} else {
				s.console.WriteLine("Account not found.")
			}

		case "3":
			number, ok := s.promptAccountNumber("Enter account number to update: ")
			if !ok {
				break
			}
			input, err := s.prompt("Enter new balance: ")
			if err != nil {
				return
			}
			newBalance, err := decimal.NewFromString(input)
			if err != nil || newBalance.IsNegative() {
				s.console.WriteLine("Invalid balance.")
				break
			}
			newStatus, err := s.prompt("Enter new status: ")
			if err != nil {
				return
			}
			if newStatus == "" {
				s.console.WriteLine("Status cannot be empty.")
				break
			}
			updated, err := s.service.UpdateAccount(ctx, number, newBalance, newStatus)
			if err != nil {
				s.console.WriteLine("Error: " + err.Error())
				break
			}
			log.Printf("session %s: updated account %d", sessionID, number)
			s.console.WriteLine(fmt.Sprintf("Account %d updated. New balance: %s, Status: %s",
				updated.AccountNumber(), updated.Balance().StringFixed(2), updated.Status()))

		case "4":
			number, ok := s.promptAccountNumber("Enter account number to search: ")
			if !ok {
				break
			}
			found, err := s.service.FindByNumber(ctx, number)
			if err != nil {
				if errors.Is(err, store.ErrAccountNotFound) {
					s.console.WriteLine("Account not found.")
				} else {
					s.console.WriteLine("Error: " + err.Error())
				}
				break
			}
			s.console.WriteLine(fmt.Sprintf("Account %d: Balance = %s, Status = %s",
				found.AccountNumber(), found.Balance().StringFixed(2), found.Status()))

		case "5":
			s.console.WriteLine("Thank you for using the ATM. Goodbye!")
			return

		default:
			s.console.WriteLine("Invalid option.")
		}
	}
}

func (s *Session) prompt(label string) (string, error) {
	s.console.Write(label)
	return s.console.ReadLine()
}

// promptAccountNumber reads and parses an account number; false means the
// input was missing or not a number and a message was already printed.
func (s *Session) promptAccountNumber(label string) (int64, bool) {
	input, err := s.prompt(label)
	if err != nil {
		return 0, false
	}
	number, parseErr := strconv.ParseInt(input, 10, 64)
	if input == "" || parseErr != nil {
		s.console.WriteLine("Invalid account number.")
		return 0, false
	}
	return number, true
}

func (s *Session) showBalance(ctx context.Context, accountNumber int64, prefix string) {
	balance, err := s.service.GetBalance(ctx, accountNumber)
	if err != nil {
		s.console.WriteLine("Error: " + err.Error())
		return
	}
	s.console.WriteLine(prefix + balance.StringFixed(2))
}

func parseAmount(input string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, false
	}
	if !amount.IsPositive() || amount.GreaterThan(maxPromptAmount) {
		return decimal.Zero, false
	}
	return amount, true
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
