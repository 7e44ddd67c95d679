package report

import (
	"archive/tar"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestWriteSQLAndManifest(t *testing.T) {
	dir := t.TempDir()
	r, err := New(dir)
	if err != nil {
		t.Fatalf("new reporter: %v", err)
	}
	if r.RunID == "" {
		t.Fatalf("empty run id")
	}
	if err := r.WriteSQL("query.sql", []string{"INSERT INTO `T` (`a`) VALUES\n  (1);"}); err != nil {
		t.Fatalf("write sql: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "query.sql"))
	if err != nil {
		t.Fatalf("read sql: %v", err)
	}
	if !strings.HasSuffix(string(data), ";\n") {
		t.Fatalf("sql file not terminated:\n%s", data)
	}

	if err := r.WriteManifest(Manifest{Seed: 42, AsOf: "2020-06-01", EntityFile: "query.sql"}); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.Seed != 42 || m.AsOf != "2020-06-01" {
		t.Fatalf("manifest=%+v", m)
	}
	if m.RunID != r.RunID {
		t.Fatalf("manifest run id %q, want %q", m.RunID, r.RunID)
	}
	if m.Timestamp == "" {
		t.Fatalf("manifest missing timestamp")
	}
}

func TestWriteArchive(t *testing.T) {
	dir := t.TempDir()
	r, err := New(dir)
	if err != nil {
		t.Fatalf("new reporter: %v", err)
	}
	if err := r.WriteSQL("query.sql", []string{"INSERT INTO `T` (`a`) VALUES\n  (1);"}); err != nil {
		t.Fatalf("write sql: %v", err)
	}

	name, codec, err := r.WriteArchive()
	if err != nil {
		t.Fatalf("write archive: %v", err)
	}
	if name != ArchiveName || codec != ArchiveCodec {
		t.Fatalf("archive=%s codec=%s", name, codec)
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()
	tr := tar.NewReader(zr)
	found := false
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar read: %v", err)
		}
		if hdr.Name == ArchiveName {
			t.Fatalf("archive contains itself")
		}
		if hdr.Name == "query.sql" {
			found = true
		}
	}
	if !found {
		t.Fatalf("query.sql missing from archive")
	}
}
