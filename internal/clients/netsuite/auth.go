package netsuite

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dghubble/oauth1"
	"github.com/google/uuid"

	"nsquery/internal/config"
	"nsquery/internal/errors"
)

// uuidNoncer hands out a random v4 UUID per request so a nonce is never reused.
type uuidNoncer struct{}

func (uuidNoncer) Nonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Realm converts an account id to the form the server expects in the
// OAuth realm: upper case with sandbox dashes turned into underscores,
// e.g. "1234567-sb1" becomes "1234567_SB1".
func Realm(accountID string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(accountID), "-", "_"))
}

// validateSigningMaterial rejects key material that cannot produce a
// signature the server would accept.
func validateSigningMaterial(creds config.Credentials) error {
	fields := []struct {
		name  string
		value string
	}{
		{"account id", creds.AccountID},
		{"consumer key", creds.ConsumerKey},
		{"consumer secret", creds.ConsumerSecret},
		{"token id", creds.TokenID},
		{"token secret", creds.TokenSecret},
	}

	for _, f := range fields {
		if f.value == "" {
			return errors.Signing(fmt.Sprintf("%s is empty", f.name))
		}
		if i := strings.IndexFunc(f.value, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsControl(r)
		}); i >= 0 {
			return errors.Signing(fmt.Sprintf("%s contains whitespace or control characters at position %d", f.name, i))
		}
	}
	return nil
}

// newOAuthConfig sets up three-legged HMAC-SHA1 signing: the consumer pair
// identifies the integration, the token pair identifies the user and role.
func newOAuthConfig(creds config.Credentials, noncer oauth1.Noncer) (*oauth1.Config, *oauth1.Token) {
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	cfg.Realm = Realm(creds.AccountID)
	cfg.Signer = &oauth1.HMACSigner{ConsumerSecret: creds.ConsumerSecret}
	cfg.Noncer = noncer

	return cfg, oauth1.NewToken(creds.TokenID, creds.TokenSecret)
}
