package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/schoolsync/internal/client/storage"
)

// tokenClaims reads exp and sub without verifying the signature: the client
// has no key and only uses them for display.
func tokenClaims(token string) (expiresAt int64, subject string, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, "", false
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Unix()
	}
	subject, _ = claims.GetSubject()
	return expiresAt, subject, true
}

func (c *Cli) runTokenSet(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		var err error
		token, err = c.io.ReadPassword("Access token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(token)
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}

	authData := &storage.AuthData{AccessToken: token}
	if exp, sub, ok := tokenClaims(token); ok {
		authData.ExpiresAt = exp
		authData.Subject = sub
		if exp > 0 && time.Unix(exp, 0).Before(c.clock()) {
			return errors.New("token has already expired")
		}
	} else {
		c.io.Println("Warning: token is not a JWT, expiry is unknown")
	}

	if err := c.auth.SaveAuth(ctx, authData); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	c.io.Println("✓ Access token saved")
	if authData.Subject != "" {
		c.io.Printf("Subject: %s\n", authData.Subject)
	}
	if authData.ExpiresAt > 0 {
		c.io.Printf("Expires: %s\n", time.Unix(authData.ExpiresAt, 0).Format(time.RFC3339))
	}
	return nil
}

func (c *Cli) runTokenClear(ctx context.Context) error {
	if err := c.auth.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	c.io.Println("✓ Access token removed")
	return nil
}
