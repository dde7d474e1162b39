package dbf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"sales-history/core/utils"
)

// ErrFieldOverflow is returned when a number does not fit its declared width.
var ErrFieldOverflow = errors.New("value does not fit field width")

var now = time.Now

// Create writes an empty table with the given layout. It refuses to overwrite an
// existing file.
func Create(path string, fields []Field, cp Codepage) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields declared")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	buf := encodeHeader(fields, 0, now(), cp.LanguageDriver())
	buf = append(buf, eofMarker)
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	return f.Close()
}

// Append adds records to the end of the table at path and updates the row count.
// All records are encoded before anything is written, so an encoding error leaves the
// file untouched. Text is passed through cp; unknown characters become '?'.
func Append(path string, cp Codepage, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := readHeader(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var body bytes.Buffer
	body.Grow(len(records)*h.RecordLength + 1)
	for i, rec := range records {
		row, err := encodeRecord(h.Fields, rec, cp)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		body.Write(row)
	}
	body.WriteByte(eofMarker)

	offset := int64(h.HeaderLength) + int64(h.Count)*int64(h.RecordLength)
	if _, err := f.WriteAt(body.Bytes(), offset); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	// Header bookkeeping goes last: a crash before this point leaves the old count,
	// and readers never see the partially written rows.
	var meta [12]byte
	if _, err := f.ReadAt(meta[:], 0); err != nil && err != io.EOF {
		return fmt.Errorf("failed to reread header: %w", err)
	}
	putUpdated(meta[:], now())
	count := uint32(h.Count + len(records))
	meta[4], meta[5], meta[6], meta[7] = byte(count), byte(count>>8), byte(count>>16), byte(count>>24)
	if _, err := f.WriteAt(meta[:8], 0); err != nil {
		return fmt.Errorf("failed to update header: %w", err)
	}

	return f.Sync()
}

func encodeRecord(fields []Field, rec Record, cp Codepage) ([]byte, error) {
	width := 1
	for _, f := range fields {
		width += f.Length
	}
	row := make([]byte, 0, width)
	row = append(row, flagActive)

	for _, f := range fields {
		cell, err := encodeValue(f, rec[f.Name], cp)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		row = append(row, cell...)
	}
	return row, nil
}

func encodeValue(f Field, v any, cp Codepage) ([]byte, error) {
	switch f.Type {
	case TypeDate:
		t, ok, err := asDate(v)
		if err != nil {
			return nil, err
		}
		if !ok {
			return pad(nil, f.Length, false), nil
		}
		return []byte(t.Format("20060102")), nil
	case TypeNumeric, TypeFloat:
		if v == nil {
			return pad(nil, f.Length, true), nil
		}
		s, err := f.FormatNumber(utils.ToFloat(v))
		if err != nil {
			return nil, err
		}
		return pad([]byte(s), f.Length, true), nil
	case TypeLogical:
		switch b := v.(type) {
		case nil:
			return []byte{'?'}, nil
		case bool:
			if b {
				return []byte{'T'}, nil
			}
			return []byte{'F'}, nil
		default:
			if utils.ToBool(b) {
				return []byte{'T'}, nil
			}
			return []byte{'F'}, nil
		}
	default:
		raw := cp.Encode(utils.ToString(v))
		if len(raw) > f.Length {
			raw = raw[:f.Length]
		}
		return pad(raw, f.Length, false), nil
	}
}

func asDate(v any) (time.Time, bool, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false, nil
		}
		return d, true, nil
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false, nil
		}
		return *d, true, nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false, nil
		}
		for _, layout := range []string{"20060102", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true, nil
			}
		}
		return time.Time{}, false, fmt.Errorf("cannot encode %q as date", d)
	default:
		return time.Time{}, false, fmt.Errorf("cannot encode %T as date", v)
	}
}

func pad(b []byte, width int, right bool) []byte {
	if len(b) >= width {
		return b
	}
	fill := bytes.Repeat([]byte{' '}, width-len(b))
	if right {
		return append(fill, b...)
	}
	return append(b, fill...)
}
