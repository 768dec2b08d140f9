package session

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidEmail is returned by NewUser for addresses that do not look like
// name@host.tld.
var ErrInvalidEmail = errors.New("session: email is invalid")

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

// NewUser builds a User for sign-in or registration. When name is empty the
// local part of the email is used.
func NewUser(email, name string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !emailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return &User{Email: email, Name: name}, nil
}
