package document

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// SQLiteStore implements Store on top of a SQLite database. All collections
// share one documents table; rows are ordered by the SCN the insert trigger
// assigns, so FetchAll returns documents in commit order.
type SQLiteStore struct {
	db       *sql.DB
	table    string
	seqTable string
	newID    func() string
	form     *norm.Form
}

// Option customises a SQLiteStore.
type Option func(s *SQLiteStore)

// WithTable overrides the documents table name.
func WithTable(table string) Option {
	return func(s *SQLiteStore) {
		if table != "" {
			s.table = table
		}
	}
}

// WithSeqTable overrides the SCN sequence table name.
func WithSeqTable(seqTable string) Option {
	return func(s *SQLiteStore) {
		if seqTable != "" {
			s.seqTable = seqTable
		}
	}
}

// WithIDGenerator replaces the default UUID generator for new documents.
func WithIDGenerator(fn func() string) Option {
	return func(s *SQLiteStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithNormalization rewrites keys and string values to the given Unicode
// normalization form before they are stored. Off by default, text is stored
// exactly as given.
func WithNormalization(form norm.Form) Option {
	return func(s *SQLiteStore) {
		s.form = &form
	}
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the documents
// schema exists in the provided database.
func NewSQLiteStore(ctx context.Context, db *sql.DB, opts ...Option) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("document: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s := &SQLiteStore{db: db, table: DefaultTable, seqTable: DefaultSeqTable, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	if err := EnsureSchema(ctx, db, s.table, s.seqTable); err != nil {
		return nil, err
	}
	return s, nil
}

// FetchAll returns every document in the collection ordered by SCN.
func (s *SQLiteStore) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, fields FROM `+s.table+` WHERE collection = ? ORDER BY scn, rowid`, collection)
	if err != nil {
		return nil, fmt.Errorf("document: fetch %s: %w", collection, err)
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("document: fetch %s: %w", collection, err)
		}
		fields, err := DecodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("document: fetch %s/%s: %w", collection, id, err)
		}
		out = append(out, Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("document: fetch %s: %w", collection, err)
	}
	return out, nil
}

// Insert stores fields as a new document and returns its generated ID.
func (s *SQLiteStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.form != nil {
		if err := CheckUTF8(fields); err != nil {
			return "", err
		}
		fields = NormalizeFields(*s.form, fields)
	}
	raw, err := EncodeFields(fields)
	if err != nil {
		return "", err
	}
	id := s.newID()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO `+s.table+`(collection, id, fields) VALUES(?, ?, ?)`, collection, id, string(raw)); err != nil {
		return "", fmt.Errorf("document: insert %s: %w", collection, err)
	}
	return id, nil
}

func checkCollection(collection string) error {
	if strings.TrimSpace(collection) == "" {
		return fmt.Errorf("document: empty collection name")
	}
	return nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
