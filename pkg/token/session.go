package token

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrInvalidToken indicates the token was never issued or was revoked.
	ErrInvalidToken = errors.New("token was invalid")

	// ErrTokenExpired indicates the token was issued but its session timed out.
	ErrTokenExpired = errors.New("token timeout")
)

type session struct {
	user    string
	expires time.Time
}

// Issuer tracks live sessions by token hash.
type Issuer struct {
	secret string
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]session
}

// NewIssuer creates an issuer whose sessions last ttl. A zero ttl means
// sessions never expire.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]session),
	}
}

// Issue starts a session for user and returns its token.
func (i *Issuer) Issue(user string) (string, error) {
	tok, err := Generate()
	if err != nil {
		return "", err
	}

	s := session{user: user}
	if i.ttl > 0 {
		s.expires = i.now().Add(i.ttl)
	}

	i.mu.Lock()
	i.sessions[Hash(tok, i.secret)] = s
	i.mu.Unlock()
	return tok, nil
}

// Check returns the user owning tok. Expired sessions are dropped.
func (i *Issuer) Check(tok string) (string, error) {
	if err := ValidateLength(tok); err != nil {
		return "", err
	}
	key := Hash(tok, i.secret)

	i.mu.Lock()
	defer i.mu.Unlock()

	s, ok := i.sessions[key]
	if !ok {
		return "", ErrInvalidToken
	}
	if !s.expires.IsZero() && !i.now().Before(s.expires) {
		delete(i.sessions, key)
		return "", ErrTokenExpired
	}
	return s.user, nil
}

// Revoke ends the session of tok, if any.
func (i *Issuer) Revoke(tok string) {
	i.mu.Lock()
	delete(i.sessions, Hash(tok, i.secret))
	i.mu.Unlock()
}

// Len returns the number of tracked sessions.
func (i *Issuer) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.sessions)
}
