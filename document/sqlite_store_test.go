package document

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/viant/recordsync/engine"
	"golang.org/x/text/unicode/norm"
)

func newTestStore(t *testing.T, opts ...Option) *SQLiteStore {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteStore(context.Background(), db, opts...)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

// TestSQLiteStore_InsertFetch exercises inserting documents and fetching them
// back in insertion order, scoped per collection.
func TestSQLiteStore_InsertFetch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	out, err := store.FetchAll(ctx, "Clientes")
	if err != nil {
		t.Fatalf("FetchAll on empty store failed: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("FetchAll on empty store = %v, want empty non-nil slice", out)
	}

	names := []string{"Ana", "Bruno", "Carla"}
	ids := make([]string, 0, len(names))
	for i, name := range names {
		id, err := store.Insert(ctx, "Clientes", map[string]any{"nome": name, "telefone": fmt.Sprint(i)})
		if err != nil {
			t.Fatalf("Insert(%s) failed: %v", name, err)
		}
		if id == "" {
			t.Fatalf("Insert(%s) returned empty id", name)
		}
		ids = append(ids, id)
	}
	if _, err := store.Insert(ctx, "Outros", map[string]any{"nome": "X"}); err != nil {
		t.Fatalf("Insert(Outros) failed: %v", err)
	}

	out, err = store.FetchAll(ctx, "Clientes")
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(out) != len(names) {
		t.Fatalf("FetchAll returned %d docs, want %d", len(out), len(names))
	}
	for i, d := range out {
		if d.ID != ids[i] {
			t.Errorf("doc[%d].ID = %s, want %s", i, d.ID, ids[i])
		}
		if got := d.Fields["nome"]; got != names[i] {
			t.Errorf("doc[%d].nome = %v, want %s", i, got, names[i])
		}
	}

	others, err := store.FetchAll(ctx, "Outros")
	if err != nil {
		t.Fatalf("FetchAll(Outros) failed: %v", err)
	}
	if len(others) != 1 {
		t.Fatalf("FetchAll(Outros) returned %d docs, want 1", len(others))
	}
}

func TestSQLiteStore_Options(t *testing.T) {
	ctx := context.Background()
	next := 0
	store := newTestStore(t,
		WithTable("client_docs"),
		WithSeqTable("client_scn"),
		WithIDGenerator(func() string { next++; return fmt.Sprintf("doc-%d", next) }),
	)
	id, err := store.Insert(ctx, "Clientes", nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id != "doc-1" {
		t.Fatalf("Insert id = %s, want doc-1", id)
	}
	out, err := store.FetchAll(ctx, "Clientes")
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(out) != 1 || len(out[0].Fields) != 0 {
		t.Fatalf("FetchAll = %+v, want one empty document", out)
	}
}

func TestSQLiteStore_Normalization(t *testing.T) {
	ctx := context.Background()
	const decomposed = "Jose\u0301"

	plain := newTestStore(t)
	if _, err := plain.Insert(ctx, "Clientes", map[string]any{"nome": decomposed}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	out, err := plain.FetchAll(ctx, "Clientes")
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if got := out[0].Fields["nome"]; got != decomposed {
		t.Fatalf("default store nome = %q, want %q", got, decomposed)
	}

	nfc := newTestStore(t, WithNormalization(norm.NFC))
	if _, err := nfc.Insert(ctx, "Clientes", map[string]any{"nome": decomposed}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	out, err = nfc.FetchAll(ctx, "Clientes")
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if got := out[0].Fields["nome"]; got != "Jos\u00e9" {
		t.Fatalf("NFC store nome = %q, want precomposed", got)
	}
}

func TestSQLiteStore_InsertInvalidUTF8(t *testing.T) {
	ctx := context.Background()
	for _, store := range []*SQLiteStore{newTestStore(t), newTestStore(t, WithNormalization(norm.NFC))} {
		if _, err := store.Insert(ctx, "Clientes", map[string]any{"nome": "Ana\xff"}); !errors.Is(err, ErrInvalidUTF8) {
			t.Fatalf("Insert error = %v, want ErrInvalidUTF8", err)
		}
		out, err := store.FetchAll(ctx, "Clientes")
		if err != nil {
			t.Fatalf("FetchAll failed: %v", err)
		}
		if len(out) != 0 {
			t.Fatalf("FetchAll returned %d docs after rejected insert, want 0", len(out))
		}
	}
}

func TestSQLiteStore_EmptyCollection(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Insert(context.Background(), "", map[string]any{"nome": "Ana"}); err == nil {
		t.Fatalf("expected error for empty collection name on Insert")
	}
	if _, err := store.FetchAll(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty collection name on FetchAll")
	}
}

func TestSQLiteStore_FetchAfterClose(t *testing.T) {
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	store, err := NewSQLiteStore(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	_ = db.Close()
	if _, err := store.FetchAll(context.Background(), "Clientes"); err == nil {
		t.Fatalf("expected FetchAll to fail on a closed database")
	}
}
