package preprocess

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	log "github.com/sirupsen/logrus"
	"github.com/tebben/cadastreur/preprocess/queries"
	"github.com/tebben/cadastreur/settings"
)

// Prepare builds the demo parcel geoparquet from the configured communes
// file. The output lands next to the input and can be fed straight to the
// loader.
func Prepare() error {
	config := settings.GetConfig()
	return process("parcelles", queries.ParcelQuery,
		config.Process.Folder, config.Process.CommunesFile, config.Process.Communes)
}

func process(name string, query string, datadir string, communesFile string, communes []string) error {
	log.Infof("Processing data: %s", name)

	query = expandQuery(query, datadir, communesFile, communes)

	db, err := getDuckDB()
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("process %s: %w", name, err)
	}
	return nil
}

// expandQuery fills the placeholders of a query template. Commune names are
// lowercased and quoted into a SQL IN list.
func expandQuery(query string, datadir string, communesFile string, communes []string) string {
	quoted := make([]string, len(communes))
	for i, c := range communes {
		quoted[i] = "'" + strings.ReplaceAll(strings.ToLower(c), "'", "''") + "'"
	}

	query = strings.ReplaceAll(query, "%DATADIR%", datadir)
	query = strings.ReplaceAll(query, "%COMMUNESFILE%", communesFile)
	query = strings.ReplaceAll(query, "%COMMUNES%", strings.Join(quoted, ", "))
	return query
}

func getDuckDB() (*sql.DB, error) {
	return sql.Open("duckdb", "")
}
