package rpc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"sync"

	"github.com/go-i2p/crypto/rand"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// nowFunc is overridable for testing.
var nowFunc = gtime.Now

// AuthManager issues and checks HMAC-SHA256 tokens. Safe for concurrent use.
//
// Authentication flow:
//  1. Client sends the password via the Authenticate method
//  2. Server returns a token valid until its expiration instant
//  3. Client includes the token in subsequent requests
type AuthManager struct {
	password string
	// tokens maps each issued token to its expiration. Protected by mu.
	tokens map[string]gtime.Instant
	mu     sync.RWMutex
	secret []byte
	serial uint64
}

// NewAuthManager creates an authentication manager with a random HMAC secret.
func NewAuthManager(password string) (*AuthManager, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, oops.Wrapf(err, "failed to generate HMAC secret")
	}
	return &AuthManager{
		password: password,
		tokens:   make(map[string]gtime.Instant),
		secret:   secret,
	}, nil
}

// Authenticate checks password and issues a token valid for expiration.
func (am *AuthManager) Authenticate(password string, expiration gtime.Duration) (string, error) {
	am.mu.RLock()
	currentPassword := am.password
	am.mu.RUnlock()

	if !hmac.Equal([]byte(password), []byte(currentPassword)) {
		return "", oops.Errorf("invalid password")
	}

	now := nowFunc()
	am.mu.Lock()
	am.serial++
	token := am.generateToken(now, am.serial)
	am.tokens[token] = now.Add(expiration)
	am.mu.Unlock()

	log.WithFields(logger.Fields{
		"at":         "AuthManager.Authenticate",
		"expiration": expiration.String(),
	}).Debug("generated authentication token")
	return token, nil
}

// ValidateToken reports whether token was issued and has not expired.
// Expired tokens are removed.
func (am *AuthManager) ValidateToken(token string) bool {
	am.mu.RLock()
	expiration, exists := am.tokens[token]
	am.mu.RUnlock()
	if !exists {
		return false
	}

	if nowFunc().After(expiration) {
		am.mu.Lock()
		delete(am.tokens, token)
		am.mu.Unlock()
		log.WithField("at", "AuthManager.ValidateToken").Debug("token expired and removed")
		return false
	}
	return true
}

// RevokeToken invalidates token immediately. Unknown tokens are ignored.
func (am *AuthManager) RevokeToken(token string) {
	am.mu.Lock()
	delete(am.tokens, token)
	am.mu.Unlock()
}

// CleanupExpiredTokens removes expired tokens and returns how many were removed.
func (am *AuthManager) CleanupExpiredTokens() int {
	now := nowFunc()
	removed := 0

	am.mu.Lock()
	for token, expiration := range am.tokens {
		if now.After(expiration) {
			delete(am.tokens, token)
			removed++
		}
	}
	am.mu.Unlock()

	if removed > 0 {
		log.WithFields(logger.Fields{
			"at":      "AuthManager.CleanupExpiredTokens",
			"removed": removed,
		}).Debug("cleaned up expired tokens")
	}
	return removed
}

// TokenCount returns the number of tokens issued and not yet removed,
// expired ones included until they are swept.
func (am *AuthManager) TokenCount() int {
	am.mu.RLock()
	defer am.mu.RUnlock()
	return len(am.tokens)
}

// generateToken signs the issue instant and a serial number. Callers hold am.mu.
func (am *AuthManager) generateToken(issued gtime.Instant, serial uint64) string {
	h := hmac.New(sha256.New, am.secret)
	h.Write(issued.Bytes())
	h.Write(binary.BigEndian.AppendUint64(nil, serial))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
