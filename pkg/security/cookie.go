package security

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
)

// SessionCookie signs (and optionally encrypts) the session token carried in
// the browser cookie.
type SessionCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
	codec  *securecookie.SecureCookie
}

// NewSessionCookie builds the codec. blockKey may be empty to sign without
// encrypting; otherwise it must be 16, 24 or 32 bytes long.
func NewSessionCookie(name, hashKey, blockKey string, maxAge time.Duration, secure bool) (*SessionCookie, error) {
	if hashKey == "" {
		return nil, fmt.Errorf("session cookie: hash key is required")
	}
	var block []byte
	if blockKey != "" {
		switch len(blockKey) {
		case 16, 24, 32:
			block = []byte(blockKey)
		default:
			return nil, fmt.Errorf("session cookie: block key must be 16, 24 or 32 bytes, got %d", len(blockKey))
		}
	}

	codec := securecookie.New([]byte(hashKey), block)
	codec.MaxAge(int(maxAge.Seconds()))
	return &SessionCookie{
		Name:   name,
		MaxAge: maxAge,
		Secure: secure,
		codec:  codec,
	}, nil
}

func (s *SessionCookie) Encode(token string) (string, error) {
	return s.codec.Encode(s.Name, token)
}

func (s *SessionCookie) Decode(value string) (string, error) {
	var token string
	if err := s.codec.Decode(s.Name, value, &token); err != nil {
		return "", err
	}
	return token, nil
}

// Set writes the encoded token as an HttpOnly cookie.
func (s *SessionCookie) Set(c *gin.Context, token string) error {
	value, err := s.Encode(token)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, value, int(s.MaxAge.Seconds()), "/", "", s.Secure, true)
	return nil
}

func (s *SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

// Token reads and verifies the cookie. Missing or tampered cookies yield "".
func (s *SessionCookie) Token(c *gin.Context) string {
	value, err := c.Cookie(s.Name)
	if err != nil || value == "" {
		return ""
	}
	token, err := s.Decode(value)
	if err != nil {
		return ""
	}
	return token
}
