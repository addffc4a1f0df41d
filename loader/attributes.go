package loader

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// renameMap collapses the column name variants seen in French cadastral
// exports onto the target table schema.
var renameMap = map[string]string{
	"CODE_INSEE":   "code_insee",
	"INSEE":        "code_insee",
	"DEPCOM":       "code_insee",
	"CODE_COMMUNE": "code_insee",
	"NOM_COM":      "nom",
	"NOM_COMMUNE":  "nom",
	"COMMUNE":      "nom",
	"LIBELLE":      "nom",
	"SURFACE":      "surface",
	"CONTENANCE":   "surface",
	"SECTION":      "section",
	"NUMERO":       "numero",
	"PREFIXE":      "prefixe",
}

// communeFieldCandidates is ordered by priority, names before codes.
var communeFieldCandidates = []string{
	"nom", "nom_com", "nom_commune", "commune", "libelle",
	"code_insee", "insee", "code_commune", "depcom",
}

// StandardizeFields renames attribute columns to the target schema,
// case-insensitively. Unknown columns are kept under their lowercased name,
// an already present standard name is never overwritten.
func StandardizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		std, ok := renameMap[strings.ToUpper(k)]
		if !ok {
			std = strings.ToLower(k)
		}
		if _, exists := out[std]; exists {
			continue
		}
		out[std] = v
	}
	return out
}

// DetectCommuneField returns the first candidate column present in the
// fields, or "" when none matches.
func DetectCommuneField(fields map[string]any) string {
	lower := make(map[string]struct{}, len(fields))
	for k := range fields {
		lower[strings.ToLower(k)] = struct{}{}
	}
	for _, candidate := range communeFieldCandidates {
		if _, ok := lower[candidate]; ok {
			return candidate
		}
	}
	return ""
}

// filenameNoise are tokens that never name a commune.
var filenameNoise = map[string]struct{}{
	"parcelle": {}, "parcelles": {}, "cadastre": {}, "cadastral": {},
	"sample": {}, "demo": {}, "data": {}, "export": {}, "shapefile": {},
}

// InferCommuneFromFilename derives a commune name from filename conventions
// like parcelles_dijon.shp or cadastre-chenove.geojson. Returns "" when the
// filename carries no usable token.
func InferCommuneFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	tokens := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	title := cases.Title(language.French)
	for i := len(tokens) - 1; i >= 0; i-- {
		token := strings.ToLower(tokens[i])
		if token == "" {
			continue
		}
		if _, noise := filenameNoise[token]; noise {
			continue
		}
		if _, err := strconv.Atoi(token); err == nil {
			continue
		}
		return title.String(token)
	}
	return ""
}

// fieldString renders an attribute value as a string, "" for nil.
func fieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// fieldFloat renders an attribute value as a float, ok=false when absent or
// not numeric.
func fieldFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
