// ABOUTME: CSV reading and writing for Table.
// ABOUTME: Decodes BOM-prefixed and Latin-1 input; writes output atomically with renameio.

package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "github.com/2389/demoseed/internal/errors"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadFile reads a CSV file with a header row.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrIO, "cannot open input").WithField(path)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "read %s", path)
	}
	log.WithFields(log.Fields{"path": path, "rows": t.Len(), "columns": len(t.Header)}).Debug("Loaded table")
	return t, nil
}

// Read parses CSV from r. Short rows are padded with empty cells; rows with
// more cells than the header are rejected.
func Read(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrIO, "cannot read input")
	}

	data, encoding, err := decode(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrIO, "cannot decode input")
	}
	if encoding != "utf-8" {
		log.WithField("encoding", encoding).Debug("Decoded non UTF-8 input")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.New(apperrors.ErrInvalidValue, "empty file: no header row found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidValue, "malformed header row")
	}

	t := New(header...)
	for rowNum := 1; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidValue, "malformed row").WithRow(rowNum)
		}

		switch {
		case len(row) > len(header):
			return nil, apperrors.New(apperrors.ErrInvalidValue, "row has more fields than the header").WithRow(rowNum)
		case len(row) < len(header):
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// decode converts raw input to UTF-8 and reports the detected encoding.
func decode(raw []byte) ([]byte, string, error) {
	if bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE) {
		out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
		return out, "utf-16", err
	}
	if !utf8.Valid(raw) {
		out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		return out, "latin-1", err
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	return out, "utf-8", err
}

// Write encodes the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFile writes the table to path. The file only appears once it is
// complete, so a failed write never leaves partial output behind.
func (t *Table) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrIO, "cannot create output directory").WithField(dir)
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithTempDir(dir), renameio.WithPermissions(0o644))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrIO, "cannot create output").WithField(path)
	}
	defer pf.Cleanup()

	if err := t.Write(pf); err != nil {
		return apperrors.Wrap(err, apperrors.ErrIO, "cannot write output").WithField(path)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrIO, "cannot write output").WithField(path)
	}

	log.WithFields(log.Fields{"path": path, "rows": t.Len()}).Debug("Wrote table")
	return nil
}
