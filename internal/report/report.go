// Package report persists run artifacts: the generated SQL files, a
// manifest describing the run, and an optional compressed archive of the
// whole output directory.
package report

import (
	"archive/tar"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"bankgen/internal/runinfo"
	"bankgen/internal/util"
)

// Archive naming for compressed run output.
const (
	ArchiveName  = "dataset.tar.zst"
	ArchiveCodec = "zstd"
)

// Reporter writes run artifacts into one output directory.
type Reporter struct {
	OutputDir string
	RunID     string
}

// Manifest captures the persisted metadata for a run.
type Manifest struct {
	RunID           string             `json:"run_id"`
	Seed            int64              `json:"seed"`
	AsOf            string             `json:"as_of"`
	Timestamp       string             `json:"timestamp"`
	EntityFile      string             `json:"entity_file"`
	TransactionFile string             `json:"transaction_file,omitempty"`
	Counts          Counts             `json:"counts"`
	ArchiveName     string             `json:"archive_name,omitempty"`
	ArchiveCodec    string             `json:"archive_codec,omitempty"`
	UploadLocation  string             `json:"upload_location,omitempty"`
	RunInfo         *runinfo.BasicInfo `json:"run_info,omitempty"`
}

// Counts records how many rows of each kind the run produced.
type Counts struct {
	Customers    int `json:"customers"`
	Employees    int `json:"employees"`
	Online       int `json:"online_accounts"`
	Offline      int `json:"offline_accounts"`
	Cards        int `json:"cards"`
	Branches     int `json:"branches"`
	Stores       int `json:"stores"`
	Transactions int `json:"transactions"`
}

// New creates a reporter rooted at outputDir and allocates a run id.
func New(outputDir string) (*Reporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	runID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		runID = v7.String()
	}
	return &Reporter{OutputDir: outputDir, RunID: runID}, nil
}

// WriteSQL writes a SQL file from the provided statements. Statements carry
// their own terminating semicolons.
func (r *Reporter) WriteSQL(name string, statements []string) error {
	content := strings.Join(statements, "\n\n") + "\n"
	return os.WriteFile(filepath.Join(r.OutputDir, name), []byte(content), 0o644)
}

// WriteManifest writes manifest.json, stamping the run id and timestamp.
func (r *Reporter) WriteManifest(m Manifest) error {
	m.RunID = r.RunID
	if m.Timestamp == "" {
		m.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	m.RunInfo = runinfo.FromEnv()
	f, err := os.Create(filepath.Join(r.OutputDir, "manifest.json"))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "manifest output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(m)
}

// WriteArchive creates a compressed archive of everything in the output
// directory, for upload or retention.
func (r *Reporter) WriteArchive() (name string, codec string, err error) {
	archivePath := filepath.Join(r.OutputDir, ArchiveName)
	if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return "", "", removeErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()
	file, err := os.Create(archivePath)
	if err != nil {
		return "", "", err
	}
	defer util.CloseWithErr(file, "archive output")

	zw, err := zstd.NewWriter(file)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if closeErr := zw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(zw)
	defer func() {
		if closeErr := tw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(r.OutputDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(r.OutputDir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			util.CloseWithErr(src, "archive source")
			return err
		}
		util.CloseWithErr(src, "archive source")
		return nil
	})
	if walkErr != nil {
		return "", "", walkErr
	}
	return ArchiveName, ArchiveCodec, nil
}
