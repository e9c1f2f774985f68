package output

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	entries := []Entry{
		{File: "main.c", Directory: "/proj", Output: "main.o", Arguments: []string{"cc", "-c", "main.c"}},
		{Directory: "/proj", Output: "exe", Arguments: []string{"ld", "main.o"}, InputFiles: []string{"main.o"}},
	}

	data, err := Serialize(entries, Format{CommandAsArray: true})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, entries)
	}

	again, err := Serialize(got, Format{CommandAsArray: true})
	if err != nil {
		t.Fatalf("re-serialize: %v", err)
	}
	if string(again) != string(data) {
		t.Fatal("expected re-serializing a round-tripped set to be a fixed point")
	}
}

func TestSerializeCommandFormAndDeserializeSplitsIt(t *testing.T) {
	entries := []Entry{
		{File: "a file.c", Directory: "/proj", Arguments: []string{"cc", "-c", "a file.c"}},
	}
	data, err := Serialize(entries, Format{CommandAsArray: false})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0].Arguments, entries[0].Arguments) {
		t.Fatalf("expected command string to split back into %v, got %+v", entries[0].Arguments, got)
	}
}

func TestSerializeDropsOutputField(t *testing.T) {
	entries := []Entry{{File: "a.c", Directory: "/proj", Output: "a.o", Arguments: []string{"cc", "-c", "a.c"}}}
	data, err := Serialize(entries, Format{CommandAsArray: true, DropOutputField: true})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got[0].Output != "" {
		t.Fatalf("expected output field to be dropped, got %q", got[0].Output)
	}
}

func TestDeserializeRejectsMissingRequiredFields(t *testing.T) {
	if _, err := Deserialize([]byte(`[{"file":"a.c","arguments":["cc","-c","a.c"]}]`)); err == nil {
		t.Fatal("expected an entry missing 'directory' to be rejected")
	}
	if _, err := Deserialize([]byte(`[{"directory":"/proj"}]`)); err == nil {
		t.Fatal("expected an entry with neither arguments nor command to be rejected")
	}
}

func TestWriteAtomicLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compile_commands.json")

	if err := WriteAtomic(path, []byte(`[{"directory":"/proj","arguments":["cc"]}]`)); err != nil {
		t.Fatalf("first write: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read after first write: %v", err)
	}

	if err := WriteAtomic(path, []byte(`[{"directory":"/proj","arguments":["cc","-c"]}]`)); err != nil {
		t.Fatalf("second write: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read after second write: %v", err)
	}

	if string(first) == string(second) {
		t.Fatal("expected the second write to actually replace the content")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly the final file to remain, found %d entries", len(entries))
	}
}
