package record

import (
	"reflect"
	"testing"
)

func TestSchemaDecode_Defaults(t *testing.T) {
	s := ClientPhone
	cases := []struct {
		name   string
		fields map[string]any
		want   Record
	}{
		{"both", map[string]any{"nome": "Ana", "telefone": "123"}, Record{"Ana", "123"}},
		{"missing secondary", map[string]any{"nome": "Ana"}, Record{Name: "Ana"}},
		{"wrong type", map[string]any{"nome": 42.0, "telefone": true}, Record{}},
		{"nil map", nil, Record{}},
		{"extra keys ignored", map[string]any{"nome": "Bia", "telefone": "9", "id": "x"}, Record{"Bia", "9"}},
	}
	for _, tc := range cases {
		if got := s.Decode(tc.fields); got != tc.want {
			t.Errorf("%s: Decode = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestSchemaEncode_ExactFields(t *testing.T) {
	got := ClientClass.Encode(Draft{}.Record())
	want := map[string]any{"nome": "", "turma": ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode(empty) = %v, want %v", got, want)
	}
	if back := ClientClass.Decode(ClientClass.Encode(Record{"Ana", "3B"})); back != (Record{"Ana", "3B"}) {
		t.Fatalf("Decode(Encode) = %+v", back)
	}
}

func TestSchemaValidate(t *testing.T) {
	if err := ClientPhone.Validate(); err != nil {
		t.Fatalf("ClientPhone.Validate: %v", err)
	}
	for _, s := range []Schema{{}, {Name: "nome"}, {Secondary: "x"}, {Name: "a", Secondary: "a"}} {
		if err := s.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", s)
		}
	}
}

func TestPreset(t *testing.T) {
	if s, err := Preset("CLASS"); err != nil || s != ClientClass {
		t.Fatalf("Preset(CLASS) = %+v, %v", s, err)
	}
	if s, err := Preset(""); err != nil || s != ClientPhone {
		t.Fatalf("Preset(\"\") = %+v, %v", s, err)
	}
	if _, err := Preset("email"); err == nil {
		t.Fatalf("Preset(email) must fail")
	}
}

func TestDraft(t *testing.T) {
	var d Draft
	if !d.IsEmpty() {
		t.Fatalf("zero draft must be empty")
	}
	d.Name = "Ana"
	if d.IsEmpty() {
		t.Fatalf("draft with a name is not empty")
	}
	if r := d.Record(); r.Name != "Ana" || r.Secondary != "" {
		t.Fatalf("Record() = %+v", r)
	}
}

func TestDecodeAll_PreservesOrder(t *testing.T) {
	got := ClientPhone.DecodeAll([]map[string]any{
		{"nome": "B"}, {"nome": "A"}, {"telefone": "1"},
	})
	want := []Record{{Name: "B"}, {Name: "A"}, {Secondary: "1"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodeAll = %+v, want %+v", got, want)
	}
}
