package spectate

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenExpiry      = 24 * time.Hour
	bcryptCost       = 12
	tokenRateWindow  = 60 * time.Second
	maxTokenAttempts = 10
	tokenSubject     = "spectator"
)

var (
	ErrBadPassword    = errors.New("invalid password")
	ErrRateLimited    = errors.New("too many token requests, try again later")
	ErrTokensDisabled = errors.New("token issuing is disabled")
	ErrInvalidToken   = errors.New("invalid token")
)

// Auth issues spectator tokens to holders of the configured password and
// validates them on connect.
type Auth struct {
	passHash  []byte
	jwtSecret []byte

	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth creates an Auth from a bcrypt password hash and a hex-encoded
// signing secret. An empty secret generates a fresh one, which invalidates
// tokens from earlier runs.
func NewAuth(passwordHash, secretHex string) (*Auth, error) {
	var secret []byte
	if secretHex != "" {
		b, err := hex.DecodeString(secretHex)
		if err != nil {
			return nil, fmt.Errorf("jwt secret: %w", err)
		}
		if len(b) < 16 {
			return nil, errors.New("jwt secret must be at least 16 bytes")
		}
		secret = b
	} else {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
	}
	return &Auth{
		passHash:  []byte(passwordHash),
		jwtSecret: secret,
		rateMap:   make(map[string]*rateEntry),
	}, nil
}

// HashPassword returns the bcrypt hash to put in the spectate config.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// IssueToken checks password and returns a signed token.
func (a *Auth) IssueToken(password, ip string) (string, error) {
	if !a.checkRate(ip) {
		return "", ErrRateLimited
	}
	if len(a.passHash) == 0 {
		return "", ErrTokensDisabled
	}
	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(password)); err != nil {
		return "", ErrBadPassword
	}
	return a.generateToken()
}

// ValidateToken verifies the signature, expiry and subject of tokenStr.
func (a *Auth) ValidateToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub != tokenSubject || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func (a *Auth) generateToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(tokenRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxTokenAttempts
}
