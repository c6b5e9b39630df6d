package record

import (
	"fmt"
	"strings"
)

// Schema names the two document fields a record is stored under.
type Schema struct {
	// Name is the field holding the client name.
	Name string

	// Secondary is the field holding the second attribute (phone or class).
	Secondary string
}

var (
	// ClientPhone registers clients by name and phone number.
	ClientPhone = Schema{Name: "nome", Secondary: "telefone"}

	// ClientClass registers clients by name and class.
	ClientClass = Schema{Name: "nome", Secondary: "turma"}
)

// Preset returns a predefined schema by its short name ("phone" or "class").
func Preset(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "phone":
		return ClientPhone, nil
	case "class":
		return ClientClass, nil
	}
	return Schema{}, fmt.Errorf("record: unknown schema preset %q", name)
}

// Validate checks that both field names are set and distinct.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("record: schema name field is empty")
	}
	if strings.TrimSpace(s.Secondary) == "" {
		return fmt.Errorf("record: schema secondary field is empty")
	}
	if s.Name == s.Secondary {
		return fmt.Errorf("record: schema fields must differ, both are %q", s.Name)
	}
	return nil
}

// Record is a persisted client as read from the collection.
type Record struct {
	Name      string
	Secondary string
}

// Draft is the record being edited and not yet submitted.
type Draft struct {
	Name      string
	Secondary string
}

// IsEmpty reports whether both draft fields are empty.
func (d Draft) IsEmpty() bool { return d.Name == "" && d.Secondary == "" }

// Record converts the draft into the record it would persist as.
func (d Draft) Record() Record { return Record{Name: d.Name, Secondary: d.Secondary} }

// Encode builds the field map for r carrying exactly the two schema fields.
func (s Schema) Encode(r Record) map[string]any {
	return map[string]any{
		s.Name:      r.Name,
		s.Secondary: r.Secondary,
	}
}

// Decode reads the two schema fields from a document field map. Missing
// fields and non-string values decode as the empty string; other keys,
// including any document id, are ignored.
func (s Schema) Decode(fields map[string]any) Record {
	return Record{
		Name:      stringField(fields, s.Name),
		Secondary: stringField(fields, s.Secondary),
	}
}

// DecodeAll decodes each field map in order.
func (s Schema) DecodeAll(docs []map[string]any) []Record {
	out := make([]Record, 0, len(docs))
	for _, fields := range docs {
		out = append(out, s.Decode(fields))
	}
	return out
}

func stringField(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}
