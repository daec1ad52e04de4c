package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaming_StoreFor(t *testing.T) {
	n := Naming{Prefix: "user_"}

	s, err := n.StoreFor("Alice_1")
	require.NoError(t, err)
	assert.Equal(t, "alice_1", s.Username)
	assert.Equal(t, "user_alice_1", s.Schema)
	assert.Equal(t, `"user_alice_1"."portfolios"`, s.Table(TablePortfolios))
	assert.Equal(t, `"user_alice_1"`, s.QuotedSchema())

	_, err = n.StoreFor(`bob"; DROP SCHEMA public; --`)
	assert.Error(t, err)
}

func TestMigrations_VersionsUniqueAndComplete(t *testing.T) {
	seen := map[int]bool{}
	for _, m := range Migrations {
		assert.False(t, seen[m.Version], "duplicate version %d", m.Version)
		seen[m.Version] = true
		assert.NotEmpty(t, m.Statements(Store{Schema: "user_x"}))
	}
	assert.Equal(t, len(Migrations), LatestVersion())

	var all string
	for _, m := range Migrations {
		for _, s := range m.Statements(Store{Schema: "user_x"}) {
			all += s
		}
	}
	for _, table := range []string{TablePortfolios, TablePortfolioStocks, TableTimeSeries, TableUsers} {
		assert.Contains(t, all, `"user_x"."`+table+`"`)
	}
	assert.Contains(t, all, "last_edited_at")
}
