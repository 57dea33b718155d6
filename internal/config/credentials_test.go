package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsquery/internal/errors"
)

func validEnv() map[string]string {
	return map[string]string{
		EnvAccountID:      "1234567",
		EnvRESTBaseURL:    "https://1234567.suitetalk.api.netsuite.com/",
		EnvConsumerKey:    "ck",
		EnvConsumerSecret: "cs",
		EnvTokenID:        "tid",
		EnvTokenSecret:    "ts",
	}
}

func lookupFrom(env map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestLoadCredentialsFromAllSet(t *testing.T) {
	creds, err := LoadCredentialsFrom(lookupFrom(validEnv()))
	require.NoError(t, err)

	assert.Equal(t, Credentials{
		AccountID:      "1234567",
		RESTBaseURL:    "https://1234567.suitetalk.api.netsuite.com",
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		TokenID:        "tid",
		TokenSecret:    "ts",
	}, creds)
}

func TestLoadCredentialsFromKeepsValuesAsGiven(t *testing.T) {
	env := validEnv()
	env[EnvConsumerSecret] = "cs "
	env[EnvTokenSecret] = " ts"

	creds, err := LoadCredentialsFrom(lookupFrom(env))
	require.NoError(t, err)
	assert.Equal(t, "cs ", creds.ConsumerSecret)
	assert.Equal(t, " ts", creds.TokenSecret)
	assert.Equal(t, "https://1234567.suitetalk.api.netsuite.com", creds.RESTBaseURL)
}

func TestLoadCredentialsFromMissingEach(t *testing.T) {
	for _, name := range RequiredVariables {
		for _, mode := range []string{"unset", "empty", "blank"} {
			t.Run(fmt.Sprintf("%s/%s", name, mode), func(t *testing.T) {
				env := validEnv()
				switch mode {
				case "unset":
					delete(env, name)
				case "empty":
					env[name] = ""
				case "blank":
					env[name] = "   "
				}

				_, err := LoadCredentialsFrom(lookupFrom(env))
				require.Error(t, err)

				e, ok := errors.As(err)
				require.True(t, ok)
				assert.Equal(t, errors.ErrorTypeConfiguration, e.Type)
				assert.Contains(t, e.Error(), name)
				assert.Equal(t, []string{name}, e.Context["missing"])
			})
		}
	}
}

func TestLoadCredentialsFromReportsAllMissing(t *testing.T) {
	_, err := LoadCredentialsFrom(lookupFrom(map[string]string{EnvAccountID: "1234567"}))
	require.Error(t, err)

	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, RequiredVariables[1:], e.Context["missing"])
}

func TestLoadCredentialsFromInvalidURL(t *testing.T) {
	for _, raw := range []string{"1234567.suitetalk.api.netsuite.com", "ftp://host", "https://"} {
		env := validEnv()
		env[EnvRESTBaseURL] = raw

		_, err := LoadCredentialsFrom(lookupFrom(env))
		require.Error(t, err, raw)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration), raw)
	}
}

func TestLoadCredentialsReadsProcessEnv(t *testing.T) {
	for name, value := range validEnv() {
		t.Setenv(name, value)
	}

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "tid", creds.TokenID)

	t.Setenv(EnvTokenSecret, "")
	_, err = LoadCredentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTokenSecret)
}

func TestCredentialsStringRedactsSecrets(t *testing.T) {
	creds := Credentials{
		AccountID:      "1234567",
		RESTBaseURL:    "https://example.com",
		ConsumerKey:    "abcdefgh",
		ConsumerSecret: "super-secret-consumer",
		TokenID:        "12345678",
		TokenSecret:    "super-secret-token",
	}

	for _, s := range []string{creds.String(), fmt.Sprintf("%v", creds), fmt.Sprintf("%#v", creds)} {
		assert.NotContains(t, s, "super-secret")
		assert.Contains(t, s, "abcd****")
		assert.Contains(t, s, "account=1234567")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NSQUERY_TEST_FROM_FILE=file\nNSQUERY_TEST_PRESET=file\n"), 0o600))

	t.Setenv("NSQUERY_TEST_PRESET", "process")
	t.Setenv("NSQUERY_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("NSQUERY_TEST_FROM_FILE"))

	require.NoError(t, LoadEnvFile(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "file", os.Getenv("NSQUERY_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("NSQUERY_TEST_PRESET"), "process environment wins")
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("NS_HTTP_TIMEOUT", "")
	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, s.Timeout)

	t.Setenv("NS_HTTP_TIMEOUT", "45s")
	s, err = LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, s.Timeout)

	for _, bad := range []string{"soon", "-5s", "0s"} {
		t.Setenv("NS_HTTP_TIMEOUT", bad)
		_, err = LoadSettings()
		require.Error(t, err, bad)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration), bad)
	}
}

func TestLoadSettingsReportRuns(t *testing.T) {
	t.Setenv("NS_HTTP_TIMEOUT", "")
	t.Setenv("NSQUERY_DATADOG", "true")
	s, err := LoadSettings()
	require.NoError(t, err)
	assert.True(t, s.ReportRuns)

	t.Setenv("NSQUERY_DATADOG", "not-a-bool")
	s, err = LoadSettings()
	require.NoError(t, err)
	assert.False(t, s.ReportRuns)
}
