package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tebben/cadastreur/settings"
)

func TestGetDBPoolInvalidConnectionString(t *testing.T) {
	pool, err := GetDBPool("bad-conn", settings.DatabaseConfig{
		ConnectionString: "://not a connection string",
		MaxConnections:   2,
	})

	assert.Nil(t, pool)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse connection string")
}
