// Package auth is a stand-in identity provider. It checks a single configured
// demo account and never talks to a backend.
package auth

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"taskdeck/internal/task"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceBreak   Presence = "break"
	PresenceShadow  Presence = "shadow"
	PresenceOffline Presence = "offline"
)

// Presences lists the states in the order the status picker cycles them.
var Presences = []Presence{PresenceOnline, PresenceBreak, PresenceShadow, PresenceOffline}

func (p Presence) Next() Presence {
	for i, v := range Presences {
		if v == p {
			return Presences[(i+1)%len(Presences)]
		}
	}
	return PresenceOnline
}

type User struct {
	ID       string
	Name     string
	Email    string
	Role     string
	Presence Presence
}

type Account struct {
	Email    string
	Password string
	User     User
}

// DemoAccount is the built-in login.
func DemoAccount() Account {
	return Account{
		Email:    "demo@example.com",
		Password: "password",
		User: User{
			ID:       "1",
			Name:     "John Doe",
			Email:    "demo@example.com",
			Role:     "Manager",
			Presence: PresenceOnline,
		},
	}
}

type Provider struct {
	account Account
	current *User
}

func New(account Account) *Provider {
	return &Provider{account: account}
}

// Current returns the signed-in user, or false when there is no session.
func (p *Provider) Current() (User, bool) {
	if p.current == nil {
		return User{}, false
	}
	return *p.current, true
}

func (p *Provider) Login(email, password string) (User, error) {
	if !strings.EqualFold(strings.TrimSpace(email), p.account.Email) || password != p.account.Password {
		return User{}, ErrInvalidCredentials
	}
	u := p.account.User
	p.current = &u
	return u, nil
}

// Register signs in a new user. Nothing is stored beyond the session.
func (p *Provider) Register(name, email, role string) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return User{}, &task.ValidationError{Field: "name"}
	case email == "":
		return User{}, &task.ValidationError{Field: "email"}
	}
	u := User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Role:     strings.TrimSpace(role),
		Presence: PresenceOnline,
	}
	p.current = &u
	return u, nil
}

func (p *Provider) Logout() {
	p.current = nil
}

// SetPresence changes the signed-in user's presence; it does nothing without a
// session.
func (p *Provider) SetPresence(presence Presence) {
	if p.current == nil {
		return
	}
	p.current.Presence = presence
}
