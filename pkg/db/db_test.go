package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/db"
)

func TestConnectInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := db.Connect(context.Background(), db.Config{URL: "://not-a-url"})
	require.ErrorIs(t, err, db.ErrFailedToParseDBConfig)
}

func TestConfigEnabled(t *testing.T) {
	t.Parallel()

	require.False(t, db.Config{}.Enabled())
	require.True(t, db.Config{URL: "postgres://localhost/app"}.Enabled())
}

func TestHealthcheckNilPool(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, db.Healthcheck(nil)(context.Background()), db.ErrHealthcheckFailed)
}
