package ingest

import (
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// rowReader yields raw rows, returning io.EOF after the last one.
type rowReader interface {
	Read() (row []string, line int, err error)
	Close() error
}

// digest hashes and counts every byte read from the input file.
type digest struct {
	h hash.Hash
	n int64
}

func newDigest() *digest {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	return &digest{h: h}
}

func (d *digest) Write(p []byte) (int, error) {
	d.n += int64(len(p))
	return d.h.Write(p)
}

func (d *digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// formatOf picks the source format from the file extension.
func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// openRows opens path and returns a reader for its rows. Failures to open
// the file are returned unwrapped so callers can classify them.
func openRows(path string, opts Options, d *digest) (rowReader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	src := io.TeeReader(f, d)

	switch format := formatOf(path); format {
	case FormatXLSX:
		rows, err := newXLSXRows(src, f, opts.Sheet)
		if err != nil {
			f.Close()
			return nil, "", err
		}
		return rows, format, nil
	default:
		return newCSVRows(src, f, opts.Delimiter), format, nil
	}
}

type csvRows struct {
	r    *csv.Reader
	file *os.File
}

// newCSVRows drops a leading byte order mark before parsing so that a
// quoted first header cell still parses. src is read after the digest tee,
// so the checksum covers the raw bytes.
func newCSVRows(src io.Reader, file *os.File, delimiter rune) *csvRows {
	r := csv.NewReader(transform.NewReader(src, unicode.BOMOverride(transform.Nop)))
	if delimiter != 0 {
		r.Comma = delimiter
	}
	// width checks happen in Stream so that short and long rows are kept
	r.FieldsPerRecord = -1
	r.ReuseRecord = true
	return &csvRows{r: r, file: file}
}

func (c *csvRows) Read() ([]string, int, error) {
	row, err := c.r.Read()
	if err != nil {
		return nil, 0, err
	}
	line, _ := c.r.FieldPos(0)
	return row, line, nil
}

func (c *csvRows) Close() error {
	return c.file.Close()
}

type xlsxRows struct {
	book  *excelize.File
	rows  *excelize.Rows
	file  *os.File
	line  int
	width int
}

func newXLSXRows(src io.Reader, file *os.File, sheet string) (*xlsxRows, error) {
	book, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if sheet == "" {
		sheet = book.GetSheetName(0)
	}
	rows, err := book.Rows(sheet)
	if err != nil {
		book.Close()
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return &xlsxRows{book: book, rows: rows, file: file}, nil
}

// Read skips blank rows and pads rows to the header width, since trailing
// empty cells are not stored in the workbook.
func (x *xlsxRows) Read() ([]string, int, error) {
	for x.rows.Next() {
		x.line++
		cols, err := x.rows.Columns()
		if err != nil {
			return nil, x.line, err
		}
		if len(cols) == 0 {
			continue
		}
		if x.width == 0 {
			x.width = len(cols)
		}
		for len(cols) < x.width {
			cols = append(cols, "")
		}
		return cols, x.line, nil
	}
	if err := x.rows.Error(); err != nil {
		return nil, x.line, err
	}
	return nil, x.line, io.EOF
}

func (x *xlsxRows) Close() error {
	return errors.Join(x.rows.Close(), x.book.Close(), x.file.Close())
}
