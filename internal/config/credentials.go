package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"nsquery/internal/errors"
)

// Environment variables holding the token-based authentication material.
const (
	EnvAccountID      = "NS_ACCOUNT_ID"
	EnvRESTBaseURL    = "NS_REST_BASE_URL"
	EnvConsumerKey    = "NS_CONSUMER_KEY"
	EnvConsumerSecret = "NS_CONSUMER_SECRET"
	EnvTokenID        = "NS_TOKEN_ID"
	EnvTokenSecret    = "NS_TOKEN_SECRET"
)

// RequiredVariables lists the credential variables in the order they are checked.
var RequiredVariables = []string{
	EnvAccountID,
	EnvRESTBaseURL,
	EnvConsumerKey,
	EnvConsumerSecret,
	EnvTokenID,
	EnvTokenSecret,
}

// Credentials is the connection material for one ERP account. It is built
// once at startup and passed by value to whatever needs it.
type Credentials struct {
	AccountID      string
	RESTBaseURL    string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
}

// LookupFunc resolves a variable name, reporting whether it was set.
type LookupFunc func(name string) (string, bool)

// LoadCredentials reads the six required variables from the process environment.
func LoadCredentials() (Credentials, error) {
	return LoadCredentialsFrom(os.LookupEnv)
}

// LoadCredentialsFrom reads the six required variables through lookup. Every
// unset or blank variable is reported in a single configuration error; no
// defaults are substituted.
func LoadCredentialsFrom(lookup LookupFunc) (Credentials, error) {
	values := make(map[string]string, len(RequiredVariables))
	var missing []string

	for _, name := range RequiredVariables {
		value, ok := lookup(name)
		if !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, name)
			continue
		}
		values[name] = value
	}

	if len(missing) > 0 {
		return Credentials{}, errors.MissingVariables(missing)
	}

	creds := Credentials{
		AccountID:      values[EnvAccountID],
		RESTBaseURL:    strings.TrimRight(values[EnvRESTBaseURL], "/"),
		ConsumerKey:    values[EnvConsumerKey],
		ConsumerSecret: values[EnvConsumerSecret],
		TokenID:        values[EnvTokenID],
		TokenSecret:    values[EnvTokenSecret],
	}

	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Validate checks that every field is present and that the base URL is usable.
func (c Credentials) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{EnvAccountID, c.AccountID},
		{EnvRESTBaseURL, c.RESTBaseURL},
		{EnvConsumerKey, c.ConsumerKey},
		{EnvConsumerSecret, c.ConsumerSecret},
		{EnvTokenID, c.TokenID},
		{EnvTokenSecret, c.TokenSecret},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.MissingVariables(missing)
	}

	u, err := url.Parse(c.RESTBaseURL)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfiguration,
			fmt.Sprintf("%s is not a valid URL", EnvRESTBaseURL))
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return errors.Configuration(
			fmt.Sprintf("%s must be an absolute http(s) URL, got %q", EnvRESTBaseURL, c.RESTBaseURL))
	}
	return nil
}

// String renders the credentials with secrets masked.
func (c Credentials) String() string {
	return fmt.Sprintf("account=%s base_url=%s consumer_key=%s consumer_secret=%s token_id=%s token_secret=%s",
		c.AccountID, c.RESTBaseURL, Mask(c.ConsumerKey), Redact(c.ConsumerSecret), Mask(c.TokenID), Redact(c.TokenSecret))
}

// GoString keeps %#v from printing secrets.
func (c Credentials) GoString() string {
	return "config.Credentials{" + c.String() + "}"
}

// Redact hides a secret entirely.
func Redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

// Mask keeps the first four characters of an identifier.
func Mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}
