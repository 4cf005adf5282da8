package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParseOptions(t *testing.T) {
	t.Run("EnvironmentFallbacks", func(t *testing.T) {
		opts, err := parseOptions(
			[]string{"-name", "Ops", "-email", "ops@example.com"},
			envOf(map[string]string{
				"DATABASE_URL":   "postgres://localhost/tours",
				"ADMIN_PASSWORD": "adminpass",
			}),
			io.Discard,
		)
		require.NoError(t, err)
		assert.Equal(t, "postgres://localhost/tours", opts.dbURL)
		assert.Equal(t, "adminpass", opts.password)
		assert.Equal(t, bcrypt.DefaultCost, opts.cost)
	})

	t.Run("FlagOverridesEnvironment", func(t *testing.T) {
		opts, err := parseOptions(
			[]string{"-database-url", "postgres://db/other", "-name", "Ops", "-email", "ops@example.com", "-password", "flagpass"},
			envOf(map[string]string{"DATABASE_URL": "postgres://localhost/tours", "ADMIN_PASSWORD": "envpass"}),
			io.Discard,
		)
		require.NoError(t, err)
		assert.Equal(t, "postgres://db/other", opts.dbURL)
		assert.Equal(t, "flagpass", opts.password)
	})

	t.Run("MissingDatabaseURL", func(t *testing.T) {
		_, err := parseOptions([]string{"-name", "Ops"}, envOf(nil), io.Discard)
		assert.Error(t, err)
	})

	t.Run("MissingFields", func(t *testing.T) {
		_, err := parseOptions(nil, envOf(map[string]string{"DATABASE_URL": "postgres://localhost/tours"}), io.Discard)
		assert.ErrorIs(t, err, errMissingFields)
	})
}

func TestRun_ConnectionFailureIsReturned(t *testing.T) {
	err := run(options{dbURL: "not a url://", name: "Ops", email: "ops@example.com", password: "adminpass"}, io.Discard)
	assert.ErrorContains(t, err, "failed to connect to database")
}
