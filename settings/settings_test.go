package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	require.NoError(t, InitializeConfig())
	config := GetConfig()

	assert.Equal(t, "parcelles", config.Loader.Table)
	assert.Equal(t, 2154, config.Loader.SRID)
	assert.Equal(t, "nom", config.Loader.CommuneField)
	assert.Equal(t, "communes", config.Loader.CommuneTable)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, []string{"Dijon", "Quetigny", "Chenôve", "Talant", "Longvic"}, config.Process.Communes)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CADASTREUR_TABLE", "parcelles_test")
	t.Setenv("CADASTREUR_SRID", "4326")
	t.Setenv("CADASTREUR_PORT", "9090")
	t.Setenv("CADASTREUR_COMMUNES", "Dijon,Talant")

	require.NoError(t, InitializeConfig())
	config := GetConfig()

	assert.Equal(t, "parcelles_test", config.Loader.Table)
	assert.Equal(t, 4326, config.Loader.SRID)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, []string{"Dijon", "Talant"}, config.Process.Communes)
}

func TestLoadConfigBadIntFallsBack(t *testing.T) {
	t.Setenv("CADASTREUR_SRID", "not-a-number")

	require.NoError(t, InitializeConfig())
	assert.Equal(t, 2154, GetConfig().Loader.SRID)
}
