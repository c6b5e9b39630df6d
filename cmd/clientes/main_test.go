package main

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/viant/recordsync/document"
	"github.com/viant/recordsync/engine"
	"github.com/viant/recordsync/record"
	"github.com/viant/recordsync/recordsync"
)

func newFormController(t *testing.T) *recordsync.Controller {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := document.NewSQLiteStore(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	c, err := recordsync.New(store, recordsync.Options{})
	if err != nil {
		t.Fatalf("recordsync.New failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRunForm(t *testing.T) {
	c := newFormController(t)

	var out bytes.Buffer
	in := strings.NewReader("Ana\n123\nBruno\n456\n")
	if err := runForm(context.Background(), c, in, &out); err != nil {
		t.Fatalf("runForm failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Nome: ", "Telefone: ", "Lista de Clientes:", "Ana", "456"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if got := len(c.Records()); got != 2 {
		t.Fatalf("Records() has %d entries, want 2", got)
	}
	// Fields remain as last typed after submit.
	if d := c.Draft(); d != (record.Draft{Name: "Bruno", Secondary: "456"}) {
		t.Fatalf("Draft() = %+v", d)
	}
}

func TestPrintRecords(t *testing.T) {
	var out bytes.Buffer
	printRecords(&out, record.ClientClass, []record.Record{{Name: "Ana", Secondary: "3A"}})
	if want := "Lista de Clientes:\n  Ana   3A\n"; out.String() != want {
		t.Fatalf("printRecords = %q, want %q", out.String(), want)
	}
}

func TestRunForm_KeepsInputAsTyped(t *testing.T) {
	c := newFormController(t)
	var out bytes.Buffer
	in := strings.NewReader("  Ana Maria \r\n 123 \r\n")
	if err := runForm(context.Background(), c, in, &out); err != nil {
		t.Fatalf("runForm failed: %v", err)
	}
	want := []record.Record{{Name: "  Ana Maria ", Secondary: " 123 "}}
	if got := c.Records(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Records() = %q, want %q", got, want)
	}
}

func TestFieldLabel(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"nome":     "Nome",
		"ñome":     "Ñome",
		"érea":     "Érea",
		"telefone": "Telefone",
	}
	for in, want := range cases {
		if got := fieldLabel(in); got != want {
			t.Errorf("fieldLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrintRecords_MultibyteLabel(t *testing.T) {
	var out bytes.Buffer
	schema := record.Schema{Name: "ñome", Secondary: "turma"}
	printRecords(&out, schema, []record.Record{{Name: "Al", Secondary: "3A"}})
	if want := "Lista de Clientes:\n  Al    3A\n"; out.String() != want {
		t.Fatalf("printRecords = %q, want %q", out.String(), want)
	}
}
