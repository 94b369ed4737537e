// Package archive persists a catalog.Snapshot to and from a dump.io
// archive: a single JSON document, deflate-compressed inside a zip
// container, mirroring the format original_source/app/src/dump/core.rs
// produces ("dump.io" as the sole member, zip's Deflated method). Go's
// archive/zip already speaks this container natively, so the format
// itself needs no outside dependency; afero supplies the filesystem
// abstraction and google/uuid stamps each dump with a provenance ID for
// audit trails across a pipeline of dump/diff runs.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/nettrash/pgcatdiff/catalog"
)

// memberName is the fixed name of the archive's sole member, kept
// identical to the original dumper's output so existing dump.io files
// produced outside this module still load correctly.
const memberName = "dump.io"

// Manifest wraps a catalog.Snapshot with the provenance metadata the
// distilled spec never modeled but original_source's DumpConfig/Dump
// pairing carries implicitly (a dump is meaningless without knowing
// when and against which database it was taken).
type Manifest struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Source      string          `json:"source,omitempty"`
	Snapshot    catalog.Snapshot `json:"snapshot"`
}

// NewManifest stamps a fresh provenance ID and timestamp around a
// snapshot extracted from `source` (typically a masked connection
// string or dump label).
func NewManifest(snap *catalog.Snapshot, source string, generatedAt time.Time) *Manifest {
	return &Manifest{
		ID:          uuid.New().String(),
		GeneratedAt: generatedAt,
		Source:      source,
		Snapshot:    *snap,
	}
}

// Write serializes m as dump.io's member, deflate-compressed inside a
// zip container, to path on fs.
func Write(fs afero.Fs, path string, m *Manifest) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal dump manifest: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   memberName,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("failed to create dump member: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write dump member: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize dump archive: %w", err)
	}

	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write dump file %s: %w", path, err)
	}
	return nil
}

// Read loads and decompresses a dump.io archive previously written by
// Write (or by the original Rust dumper — the wire format is identical).
func Read(fs afero.Fs, path string) (*Manifest, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump file %s: %w", path, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open dump archive %s: %w", path, err)
	}

	for _, member := range zr.File {
		if member.Name != memberName {
			continue
		}
		rc, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in %s: %w", memberName, path, err)
		}
		defer func() { _ = rc.Close() }()

		var m Manifest
		if err := json.NewDecoder(rc).Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode %s in %s: %w", memberName, path, err)
		}
		return &m, nil
	}
	return nil, fmt.Errorf("dump archive %s does not contain %s", path, memberName)
}
