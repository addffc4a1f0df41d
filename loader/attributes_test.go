package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizeFields(t *testing.T) {
	fields := StandardizeFields(map[string]any{
		"NOM_COM":    "Dijon",
		"CODE_INSEE": "21231",
		"Section":    "AB",
		"NUMERO":     "0001",
		"CONTENANCE": 1250.5,
		"Remarque":   "x",
	})

	assert.Equal(t, "Dijon", fields["nom"])
	assert.Equal(t, "21231", fields["code_insee"])
	assert.Equal(t, "AB", fields["section"])
	assert.Equal(t, "0001", fields["numero"])
	assert.Equal(t, 1250.5, fields["surface"])
	assert.Equal(t, "x", fields["remarque"])
}

func TestStandardizeFields_DoesNotOverwrite(t *testing.T) {
	fields := StandardizeFields(map[string]any{
		"nom": "Talant",
	})
	assert.Equal(t, "Talant", fields["nom"])
}

func TestDetectCommuneField(t *testing.T) {
	assert.Equal(t, "nom", DetectCommuneField(map[string]any{"nom": "", "code_insee": ""}))
	assert.Equal(t, "code_insee", DetectCommuneField(map[string]any{"code_insee": "", "surface": ""}))
	assert.Equal(t, "commune", DetectCommuneField(map[string]any{"COMMUNE": ""}))
	assert.Equal(t, "", DetectCommuneField(map[string]any{"surface": "", "numero": ""}))
}

func TestInferCommuneFromFilename(t *testing.T) {
	assert.Equal(t, "Dijon", InferCommuneFromFilename("data/parcelles_dijon.shp"))
	assert.Equal(t, "Chenôve", InferCommuneFromFilename("cadastre-chenôve.geojson"))
	assert.Equal(t, "Quetigny", InferCommuneFromFilename("/tmp/export_quetigny_2024.shp"))
	assert.Equal(t, "", InferCommuneFromFilename("parcelles.shp"))
	assert.Equal(t, "", InferCommuneFromFilename("data_2024.geojson"))
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "Dijon", fieldString(" Dijon "))
	assert.Equal(t, "21231", fieldString("21231"))
	assert.Equal(t, "42", fieldString(int32(42)))
	assert.Equal(t, "", fieldString(nil))
}

func TestFieldFloat(t *testing.T) {
	f, ok := fieldFloat(1250.5)
	assert.True(t, ok)
	assert.Equal(t, 1250.5, f)

	f, ok = fieldFloat("980.3")
	assert.True(t, ok)
	assert.Equal(t, 980.3, f)

	_, ok = fieldFloat(nil)
	assert.False(t, ok)

	_, ok = fieldFloat("abc")
	assert.False(t, ok)
}
