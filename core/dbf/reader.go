package dbf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reader streams the rows of a table in file order.
type Reader struct {
	file   *os.File
	buf    *bufio.Reader
	header *Header
	cp     Codepage
	row    []byte
	read   int
}

// Open opens the table at path for streaming.
func Open(path string, cp Codepage) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	buf := bufio.NewReaderSize(f, 64*1024)
	h, err := readHeader(buf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Reader{
		file:   f,
		buf:    buf,
		header: h,
		cp:     cp,
		row:    make([]byte, h.RecordLength),
	}, nil
}

// Header returns the table header.
func (r *Reader) Header() *Header {
	return r.header
}

// Next returns the next live row, or io.EOF once all rows declared by the header are consumed.
func (r *Reader) Next() (Record, error) {
	for r.read < r.header.Count {
		if _, err := io.ReadFull(r.buf, r.row); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				// Truncated tables are common after interrupted writes; stop at the last full row.
				return nil, io.EOF
			}
			return nil, err
		}
		r.read++

		if r.row[0] == eofMarker {
			return nil, io.EOF
		}
		if r.row[0] == flagDeleted {
			continue
		}
		return r.decode(r.row[1:]), nil
	}
	return nil, io.EOF
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

func (r *Reader) decode(data []byte) Record {
	rec := make(Record, len(r.header.Fields))
	off := 0
	for _, f := range r.header.Fields {
		rec[f.Name] = decodeValue(f, data[off:off+f.Length], r.cp)
		off += f.Length
	}
	return rec
}

func decodeValue(f Field, raw []byte, cp Codepage) any {
	switch f.Type {
	case TypeDate:
		s := strings.TrimSpace(string(raw))
		if s == "" {
			return nil
		}
		t, err := time.Parse("20060102", s)
		if err != nil {
			return nil
		}
		return t
	case TypeNumeric, TypeFloat:
		s := strings.TrimSpace(string(raw))
		if s == "" || strings.Trim(s, "*") == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil
		}
		return d.InexactFloat64()
	case TypeLogical:
		switch raw[0] {
		case 'T', 't', 'Y', 'y':
			return true
		case 'F', 'f', 'N', 'n':
			return false
		default:
			return nil
		}
	default:
		return strings.TrimRight(cp.Decode(trimNul(raw)), " ")
	}
}

func trimNul(b []byte) []byte {
	for i, x := range b {
		if x == 0 {
			return b[:i]
		}
	}
	return b
}

// Load reads every live row of the table at path.
func Load(path string, cp Codepage) ([]Record, error) {
	r, err := Open(path, cp)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	records := make([]Record, 0, r.header.Count)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, rec)
	}
}
