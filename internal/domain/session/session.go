package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/shopfront/internal/auth"
)

const AggregateType = "Session"

var (
	ErrEmptyCredentials   = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// User is an entry of the static credential list.
type User struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"` // Never expose in JSON
}

// Credential is the seed form of a user; the password is hashed when the
// directory is built.
type Credential struct {
	Username    string
	Password    string
	DisplayName string
}

// Directory is the read-only user set logins are checked against.
type Directory struct {
	users []User
}

func NewDirectory(creds ...Credential) (*Directory, error) {
	d := &Directory{}
	for _, c := range creds {
		hash, err := auth.HashPassword(c.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", c.Username, err)
		}
		d.users = append(d.users, User{
			Username:     c.Username,
			DisplayName:  c.DisplayName,
			PasswordHash: hash,
		})
	}
	return d, nil
}

// DefaultDirectory returns the built-in demo users.
func DefaultDirectory() (*Directory, error) {
	return NewDirectory(
		Credential{Username: "aluno", Password: "1234", DisplayName: "Aluno"},
		Credential{Username: "admin", Password: "admin", DisplayName: "Administrador"},
	)
}

// authenticate matches username exactly (case-sensitive) and checks the
// password against the stored hash.
func (d *Directory) authenticate(username, password string) (User, bool) {
	for _, u := range d.users {
		if u.Username == username && auth.CheckPassword(password, u.PasswordHash) {
			return u, true
		}
	}
	return User{}, false
}

// Session holds the authentication state of one running application
// instance: Anonymous initially, Authenticated after a successful login.
type Session struct {
	directory *Directory
	current   *User
}

func New(directory *Directory) *Session {
	return &Session{directory: directory}
}

// Login evaluates one attempt. Both fields are trimmed; empty fields fail
// with ErrEmptyCredentials before any lookup, a failed match with
// ErrInvalidCredentials. On success the session becomes Authenticated.
func (s *Session) Login(username, password string) (User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return User{}, ErrEmptyCredentials
	}

	u, ok := s.directory.authenticate(username, password)
	if !ok {
		return User{}, ErrInvalidCredentials
	}

	s.current = &u
	return u, nil
}

// Logout transitions to Anonymous regardless of the current state.
func (s *Session) Logout() {
	s.current = nil
}

// Current returns the logged-in user, if any.
func (s *Session) Current() (User, bool) {
	if s.current == nil {
		return User{}, false
	}
	return *s.current, true
}

// Require fails with ErrNotAuthenticated unless a user is logged in. Cart
// mutation and checkout are gated on it.
func (s *Session) Require() error {
	if s.current == nil {
		return ErrNotAuthenticated
	}
	return nil
}
