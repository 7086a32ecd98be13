package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oakwood-commons/jex/internal/document"
)

func TestLoadDataJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"object", `{"z":1,"a":2}`, `{"z":1,"a":2}`},
		{"array", `[1,2,3]`, `[1,2,3]`},
		{"string", `"hello"`, `"hello"`},
		{"number", `-1.5e3`, `-1.5e3`},
		{"null", `null`, `null`},
		{"multiline object", "{\n  \"a\": 1\n}", `{"a":1}`},
	}
	for _, c := range cases {
		docs, err := LoadData([]byte(c.input))
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if len(docs) != 1 || docs[0].String() != c.want {
			t.Errorf("%s: got %d docs, first = %s", c.name, len(docs), docs[0])
		}
	}
}

func TestLoadDataNDJSON(t *testing.T) {
	input := "{\"a\":1}\n{\"a\":2}\n\n{\"a\":3}\n"
	docs, err := LoadData([]byte(input))
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d docs", len(docs))
	}
	if docs[2].String() != `{"a":3}` {
		t.Fatalf("third doc = %s", docs[2])
	}
}

func TestLoadDataScalarNDJSON(t *testing.T) {
	docs, err := LoadData([]byte("1\n2\n3\n"))
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d docs", len(docs))
	}
	for i, want := range []string{"1", "2", "3"} {
		if docs[i].String() != want {
			t.Fatalf("doc %d = %s, want %s", i, docs[i], want)
		}
	}

	// Strings and mixed kinds stream the same way.
	docs, err = LoadData([]byte("\"a\"\ntrue\n{\"k\":1}\n"))
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if len(docs) != 3 || docs[0].String() != `"a"` || docs[2].String() != `{"k":1}` {
		t.Fatalf("docs = %v", docs)
	}
}

func TestLoadDataYAML(t *testing.T) {
	input := "name: ada\ntags:\n  - x\n  - y\ncount: 2\n"
	docs, err := LoadData([]byte(input))
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	want := `{"name":"ada","tags":["x","y"],"count":2}`
	if len(docs) != 1 || docs[0].String() != want {
		t.Fatalf("got %s, want %s", docs[0], want)
	}
}

func TestLoadDataMultiDocYAML(t *testing.T) {
	input := "---\na: 1\n---\nb: 2\n"
	docs, err := LoadData([]byte(input))
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs", len(docs))
	}
	if docs[0].String() != `{"a":1}` || docs[1].String() != `{"b":2}` {
		t.Fatalf("docs = %s, %s", docs[0], docs[1])
	}
}

func TestLoadDataEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t"} {
		if _, err := LoadData([]byte(input)); err == nil {
			t.Errorf("LoadData(%q): expected error", input)
		}
	}
}

func TestLoadDataInvalidJSON(t *testing.T) {
	if _, err := LoadData([]byte(`{"a":`)); err == nil {
		t.Fatal("expected error on truncated JSON")
	}
}

func TestLoadRootWrapsMultipleDocuments(t *testing.T) {
	v, err := LoadRoot([]byte("{\"a\":1}\n{\"a\":2}\n"))
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	if v.Kind() != document.KindArray || v.Len() != 2 {
		t.Fatalf("root = %s", v)
	}

	v, err = LoadRoot([]byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	if v.Kind() != document.KindObject {
		t.Fatalf("single root wrapped: %s", v)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"ok":true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	docs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(docs) != 1 || docs[0].String() != `{"ok":true}` {
		t.Fatalf("docs = %v", docs)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
