package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Account struct {
	ID           string
	Username     string
	Name         string
	Role         Role
	passwordHash []byte
}

func (a *Account) Identity() Identity {
	return Identity{UserID: a.ID, Username: a.Username, Name: a.Name, Role: a.Role}
}

// Accounts is the fixed set of login accounts built from configuration.
type Accounts struct {
	byName map[string]*Account
}

// NewAccounts registers the admin account and one user-role account per
// "username:password" entry in users.
func NewAccounts(adminUsername, adminPassword, adminName string, users []string) (*Accounts, error) {
	a := &Accounts{byName: map[string]*Account{}}
	if err := a.add(adminUsername, adminPassword, adminName, RoleAdmin); err != nil {
		return nil, err
	}
	for _, entry := range users {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, password, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("user entry %q: want username:password", entry)
		}
		if err := a.add(name, password, name, RoleUser); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Accounts) add(username, password, name string, role Role) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("account requires username and password")
	}
	if _, dup := a.byName[username]; dup {
		return fmt.Errorf("duplicate account %q", username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password for %q: %w", username, err)
	}
	a.byName[username] = &Account{
		ID:           fmt.Sprintf("user-%d", len(a.byName)+1),
		Username:     username,
		Name:         name,
		Role:         role,
		passwordHash: hash,
	}
	return nil
}

func (a *Accounts) Authenticate(username, password string) (*Account, error) {
	acct, ok := a.byName[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acct, nil
}

func (a *Accounts) Lookup(username string) (*Account, bool) {
	acct, ok := a.byName[username]
	return acct, ok
}
