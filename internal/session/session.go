package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	keyToken = "token"
	keyUser  = "user-data"

	fileType = "yaml"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRoleMismatch     = errors.New("role mismatch")
)

// User is the subset of the signed in user kept between runs.
type User struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Role     string `mapstructure:"role"`
	Verified bool   `mapstructure:"verified"`
}

func (u *User) toMap() map[string]any {
	return map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"role":     u.Role,
		"verified": u.Verified,
	}
}

type EventKind int

const (
	LoggedIn EventKind = iota
	LoggedOut
	UserChanged
)

func (k EventKind) String() string {
	switch k {
	case LoggedIn:
		return "logged-in"
	case LoggedOut:
		return "logged-out"
	case UserChanged:
		return "user-changed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

type Event struct {
	Kind EventKind
	User *User
}

// Store holds the token and user data of the current session and writes
// them to the session file on every change.
type Store struct {
	mu        sync.RWMutex
	path      string
	token     string
	user      *User
	listeners map[int]func(Event)
	nextID    int
	logger    *zap.Logger

	now func() time.Time
}

// Open reads the session file at path. A missing file is an empty session.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		path:      path,
		listeners: make(map[int]func(Event)),
		logger:    logger,
		now:       time.Now,
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no session file", zap.String("path", path))
			return s, nil
		}
		return nil, fmt.Errorf("checking session file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading session file %q: %w", path, err)
	}

	s.token = strings.TrimSpace(v.GetString(keyToken))
	if v.IsSet(keyUser) {
		u := &User{}
		if err := v.UnmarshalKey(keyUser, u); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", keyUser, err)
		}
		s.user = u
	}

	return s, nil
}

func (s *Store) Path() string { return s.path }

// Token returns the bearer token or an empty string when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the stored user data, or nil.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Save stores a freshly issued token together with its user.
func (s *Store) Save(token string, user *User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}

	s.mu.Lock()
	s.token = token
	s.user = copyUser(user)
	err := s.write()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(Event{Kind: LoggedIn, User: s.User()})
	return nil
}

// SetUser replaces the user data and keeps the token.
func (s *Store) SetUser(user *User) error {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.user = copyUser(user)
	err := s.write()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(Event{Kind: UserChanged, User: s.User()})
	return nil
}

// Clear signs out and removes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	err := os.Remove(s.path)
	s.mu.Unlock()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}

	s.notify(Event{Kind: LoggedOut})
	return nil
}

// Subscribe registers fn for session changes. The returned func removes it.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Authenticated reports whether a token is stored and has not expired.
func (s *Store) Authenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}

	claims, err := parseClaims(token)
	if err != nil {
		// Opaque tokens carry no expiry to check.
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return s.now().Before(exp.Time)
}

// Role returns the role of the signed in user. User data wins over the
// token claims.
func (s *Store) Role() string {
	if u := s.User(); u != nil && u.Role != "" {
		return u.Role
	}

	claims, err := parseClaims(s.Token())
	if err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// RequireRole checks that someone is signed in and, when role is not empty,
// that they have that role.
func (s *Store) RequireRole(role string) (*User, error) {
	if !s.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	if role == "" {
		return s.User(), nil
	}

	if got := s.Role(); !strings.EqualFold(got, role) {
		if got == "" {
			got = "unknown"
		}
		return nil, fmt.Errorf("%w: requires %s, signed in as %s", ErrRoleMismatch, role, got)
	}

	return s.User(), nil
}

// write persists the current state. Callers hold the lock.
func (s *Store) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType(fileType)
	v.Set(keyToken, s.token)
	if s.user != nil {
		v.Set(keyUser, s.user.toMap())
	}

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing session file %q: %w", s.path, err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("restricting session file: %w", err)
	}

	s.logger.Debug("session saved", zap.String("path", s.path))
	return nil
}

func (s *Store) notify(e Event) {
	s.mu.RLock()
	listeners := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

func parseClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
