package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"mess-app-go/internal/domain/account"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Provider is a process-local identity store for development and tests.
// Passwords are bcrypt hashes and access tokens are HS256 JWTs.
type Provider struct {
	mu      sync.RWMutex
	users   map[string]*user
	byEmail map[string]string
	secret  []byte
	ttl     time.Duration
	cost    int
	now     func() time.Time
}

type user struct {
	id           string
	email        string
	fullName     string
	passwordHash []byte
}

type claims struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

func New(secret string) *Provider {
	return &Provider{
		users:   make(map[string]*user),
		byEmail: make(map[string]string),
		secret:  []byte(secret),
		ttl:     defaultTokenTTL,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
	}
}

func (p *Provider) SignUp(ctx context.Context, email, password, fullName string) (account.IdentityUser, error) {
	email = account.NormalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return account.IdentityUser{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[email]; exists {
		return account.IdentityUser{}, account.ErrAlreadyRegistered
	}

	u := &user{
		id:           uuid.NewString(),
		email:        email,
		fullName:     strings.TrimSpace(fullName),
		passwordHash: hash,
	}
	p.users[u.id] = u
	p.byEmail[email] = u.id

	return u.identity(), nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (account.Session, error) {
	p.mu.RLock()
	u, ok := p.lookupEmail(account.NormalizeEmail(email))
	p.mu.RUnlock()
	if !ok {
		return account.Session{}, account.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
		return account.Session{}, account.ErrInvalidCredentials
	}

	now := p.now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:    u.email,
		FullName: u.fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}).SignedString(p.secret)
	if err != nil {
		return account.Session{}, err
	}

	return account.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(p.ttl / time.Second),
		UserID:      u.id,
	}, nil
}

// VerifyToken also rejects tokens of users deleted after the token was issued.
func (p *Provider) VerifyToken(ctx context.Context, token string) (account.IdentityUser, error) {
	parsed := &claims{}
	tok, err := jwt.ParseWithClaims(token, parsed, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return account.IdentityUser{}, account.ErrInvalidToken
	}

	p.mu.RLock()
	u, ok := p.users[parsed.Subject]
	p.mu.RUnlock()
	if !ok {
		return account.IdentityUser{}, account.ErrInvalidToken
	}
	return u.identity(), nil
}

func (p *Provider) DeleteUser(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[userID]
	if !ok {
		return account.ErrIdentityNotFound
	}
	delete(p.users, userID)
	delete(p.byEmail, u.email)
	return nil
}

func (p *Provider) UpdatePassword(ctx context.Context, userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[userID]
	if !ok {
		return account.ErrIdentityNotFound
	}
	u.passwordHash = hash
	return nil
}

func (p *Provider) lookupEmail(email string) (*user, bool) {
	id, ok := p.byEmail[email]
	if !ok {
		return nil, false
	}
	u, ok := p.users[id]
	return u, ok
}

func (u *user) identity() account.IdentityUser {
	return account.IdentityUser{
		ID:       u.id,
		Email:    u.email,
		FullName: u.fullName,
	}
}
