package document

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	// DefaultTable holds documents of every collection.
	DefaultTable = "documents"

	// DefaultSeqTable stores the next SCN per collection.
	DefaultSeqTable = "document_scn"
)

// TableDDL returns the DDL for a documents table. Each row carries the
// collection it belongs to and the SCN assigned on insert, which defines the
// store order returned by FetchAll.
func TableDDL(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    fields     TEXT NOT NULL,
    scn        INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY(collection, id)
);`
}

// SeqTableDDL returns the DDL for tracking the next SCN per collection.
func SeqTableDDL(seqTable string) string {
	return `CREATE TABLE IF NOT EXISTS ` + seqTable + ` (
    collection TEXT PRIMARY KEY,
    next_scn   INTEGER NOT NULL
);`
}

// SQLiteSCNTrigger returns the trigger DDL that advances the per-collection
// sequence and stamps the inserted row with it.
func SQLiteSCNTrigger(table, seqTable string) string {
	if seqTable == "" {
		seqTable = DefaultSeqTable
	}
	base := sanitizeIdentifier(table)
	return fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %[1]s_ai AFTER INSERT ON %[2]s
BEGIN
    INSERT INTO %[3]s(collection, next_scn)
    VALUES (NEW.collection, 1)
    ON CONFLICT(collection) DO UPDATE SET next_scn = next_scn + 1;
    UPDATE %[2]s
       SET scn = (SELECT next_scn FROM %[3]s WHERE collection = NEW.collection)
     WHERE collection = NEW.collection AND id = NEW.id;
END;`, base, table, seqTable)
}

// EnsureSchema creates the documents table, the sequence table and the SCN
// trigger if they do not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB, table, seqTable string) error {
	if table == "" {
		table = DefaultTable
	}
	if seqTable == "" {
		seqTable = DefaultSeqTable
	}
	stmts := []string{
		TableDDL(table),
		SeqTableDDL(seqTable),
		`CREATE INDEX IF NOT EXISTS ` + sanitizeIdentifier(table) + `_scn ON ` + table + `(collection, scn)`,
		SQLiteSCNTrigger(table, seqTable),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("document: ensure schema: %w", err)
		}
	}
	return nil
}

func sanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return replacer.Replace(name)
}
