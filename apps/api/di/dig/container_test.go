package dig_container

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/teenfin/backend/apps/api/echo"
	"github.com/teenfin/backend/core"
)

func TestNew_resolves_server(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("TEST_DATABASE_ENGINE", "sqlite")
	t.Setenv("TEST_DATABASE_PATH", ":memory:")
	t.Setenv("TEST_ADMINIDS", "admin_1, admin_2")

	c := New()
	err := c.Invoke(func(conf *core.Config, db *sqlx.DB, server *echoapi.Server) {
		defer func() { _ = db.Close() }()

		assert.Equal(t, "sqlite", conf.Database.Engine)
		assert.True(t, conf.IsAdmin("admin_2"))
		assert.NotNil(t, server)
	})
	require.NoError(t, err)
}
