package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookieName is the name of the admin session cookie.
	SessionCookieName = "fbarea_admin_session"
)

// SessionManager seals admin sessions into an AES-GCM encrypted cookie. The
// console keeps no server-side session table; a workspace is rebuilt from the
// cookie after a restart.
type SessionManager struct {
	aead     cipher.AEAD
	duration time.Duration
	secure   bool
	now      func() time.Time
}

// Session represents the session data stored in the encrypted cookie.
type Session struct {
	ID        string    `json:"sid"`
	Token     string    `json:"token"`
	AdminName string    `json:"name,omitempty"`
	AdminCNIC string    `json:"cnic,omitempty"`
	CSRFToken string    `json:"csrf"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession starts a session for a freshly issued API token.
func NewSession(token, adminName, adminCNIC string) (*Session, error) {
	csrf, err := GenerateSecureString(32)
	if err != nil {
		return nil, fmt.Errorf("generating csrf token: %w", err)
	}
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		AdminName: adminName,
		AdminCNIC: adminCNIC,
		CSRFToken: csrf,
	}, nil
}

// ErrNoSession is returned by Get when the request carries no usable session.
var ErrNoSession = errors.New("no admin session")

// NewSessionManager creates a session manager sealing cookies with key, which
// must be 32 bytes (AES-256).
func NewSessionManager(key []byte, duration time.Duration, secure bool) (*SessionManager, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating session cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating session cipher: %w", err)
	}
	return &SessionManager{aead: aead, duration: duration, secure: secure, now: time.Now}, nil
}

// Create stamps session with its lifetime and writes it as a sealed cookie.
func (sm *SessionManager) Create(w http.ResponseWriter, session *Session) error {
	session.CreatedAt = sm.now()
	session.ExpiresAt = session.CreatedAt.Add(sm.duration)

	value, err := sm.seal(session)
	if err != nil {
		return err
	}
	http.SetCookie(w, sm.cookie(value, int(sm.duration.Seconds())))
	return nil
}

// Get opens the session cookie. Missing, tampered, expired and tokenless
// sessions all return an error wrapping ErrNoSession.
func (sm *SessionManager) Get(r *http.Request) (*Session, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	session, err := sm.open(c.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	switch {
	case sm.now().After(session.ExpiresAt):
		return nil, fmt.Errorf("%w: expired", ErrNoSession)
	case session.Token == "":
		return nil, fmt.Errorf("%w: no api token", ErrNoSession)
	}
	return session, nil
}

// Clear expires the session cookie.
func (sm *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, sm.cookie("", -1))
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   sm.secure,
	}
}

// seal encrypts the session as nonce||ciphertext. The cookie name is bound as
// additional data so the value cannot be replayed under another cookie.
func (sm *SessionManager) seal(session *Session) (string, error) {
	plaintext, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	nonce := make([]byte, sm.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := sm.aead.Seal(nonce, nonce, plaintext, []byte(SessionCookieName))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (sm *SessionManager) open(value string) (*Session, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decoding cookie: %w", err)
	}
	n := sm.aead.NonceSize()
	if len(sealed) < n {
		return nil, errors.New("cookie too short")
	}
	plaintext, err := sm.aead.Open(nil, sealed[:n], sealed[n:], []byte(SessionCookieName))
	if err != nil {
		return nil, fmt.Errorf("decrypting cookie: %w", err)
	}
	var session Session
	if err := json.Unmarshal(plaintext, &session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &session, nil
}

// ValidCSRF reports whether token matches the session's CSRF token.
func (s *Session) ValidCSRF(token string) bool {
	return token != "" && ConstantTimeCompare(token, s.CSRFToken)
}

// GenerateSecureString returns n random bytes, base64url encoded.
func GenerateSecureString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateKey returns a random 32-byte session key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
