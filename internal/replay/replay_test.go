package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `# device recording
4
0x10

100
# trailing comment
0xDEADBEEF
`
	transport, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []uint64{4, 0x10, 100, 0xDEADBEEF}
	if transport.Remaining() != len(want) {
		t.Fatalf("Remaining() = %d, want %d", transport.Remaining(), len(want))
	}

	for i, w := range want {
		got, err := transport.ReadRegister()
		if err != nil {
			t.Fatalf("ReadRegister(%d) failed: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d = %d, want %d", i, got, w)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse(strings.NewReader("12\nnot-a-number\n")); err == nil {
		t.Error("Parse() = nil error, want failure on invalid value")
	}
}

func TestReadPastEnd(t *testing.T) {
	transport := New([]uint64{1})

	if _, err := transport.ReadRegister(); err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	if _, err := transport.ReadRegister(); err == nil {
		t.Error("reading past the recording should fail")
	}
}

func TestWriteRegisterIsDiscarded(t *testing.T) {
	transport := New([]uint64{42})

	if err := transport.WriteRegister(0x1234); err != nil {
		t.Fatalf("WriteRegister failed: %v", err)
	}
	got, err := transport.ReadRegister()
	if err != nil || got != 42 {
		t.Errorf("ReadRegister() = %d, %v; want 42, nil", got, err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.reg")
	if err := os.WriteFile(path, []byte("7\n8\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	transport, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if transport.Remaining() != 2 {
		t.Errorf("Remaining() = %d, want 2", transport.Remaining())
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.reg")); err == nil {
		t.Error("Open() = nil error, want failure")
	}
}
