package dbf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	headerSize     = 32
	descriptorSize = 32
	headerTerm     = 0x0D
	eofMarker      = 0x1A
	versionDBase3  = 0x03
	flagActive     = ' '
	flagDeleted    = '*'
)

// Header is the table preamble: layout and bookkeeping.
type Header struct {
	Version        byte
	Updated        time.Time
	Count          int
	HeaderLength   int
	RecordLength   int
	LanguageDriver byte
	Fields         []Field
}

// ReadHeader reads only the table header of the file at path.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readHeader(f)
}

func readHeader(r io.Reader) (*Header, error) {
	var raw [headerSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	h := &Header{
		Version:        raw[0],
		Updated:        time.Date(1900+int(raw[1]), time.Month(raw[2]), int(raw[3]), 0, 0, 0, 0, time.UTC),
		Count:          int(binary.LittleEndian.Uint32(raw[4:8])),
		HeaderLength:   int(binary.LittleEndian.Uint16(raw[8:10])),
		RecordLength:   int(binary.LittleEndian.Uint16(raw[10:12])),
		LanguageDriver: raw[29],
	}

	if h.HeaderLength < headerSize+1 {
		return nil, fmt.Errorf("invalid header length %d", h.HeaderLength)
	}

	rest := make([]byte, h.HeaderLength-headerSize)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, fmt.Errorf("failed to read field descriptors: %w", err)
	}

	width := 1
	for off := 0; off+descriptorSize <= len(rest) && rest[off] != headerTerm; off += descriptorSize {
		d := rest[off : off+descriptorSize]
		name := d[:11]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		f := Field{
			Name:     string(bytes.TrimSpace(name)),
			Type:     d[11],
			Length:   int(d[16]),
			Decimals: int(d[17]),
		}
		width += f.Length
		h.Fields = append(h.Fields, f)
	}

	if len(h.Fields) == 0 {
		return nil, fmt.Errorf("table declares no fields")
	}
	if width != h.RecordLength {
		return nil, fmt.Errorf("record length %d does not match field widths %d", h.RecordLength, width)
	}

	return h, nil
}

func encodeHeader(fields []Field, count int, updated time.Time, driver byte) []byte {
	recordLength := 1
	for _, f := range fields {
		recordLength += f.Length
	}
	headerLength := headerSize + descriptorSize*len(fields) + 1

	buf := make([]byte, headerLength)
	buf[0] = versionDBase3
	putUpdated(buf, updated)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(count))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(headerLength))
	binary.LittleEndian.PutUint16(buf[10:12], uint16(recordLength))
	buf[29] = driver

	for i, f := range fields {
		d := buf[headerSize+i*descriptorSize : headerSize+(i+1)*descriptorSize]
		copy(d[:11], f.Name)
		d[11] = f.Type
		d[16] = byte(f.Length)
		d[17] = byte(f.Decimals)
	}
	buf[headerLength-1] = headerTerm

	return buf
}

func putUpdated(buf []byte, t time.Time) {
	buf[1] = byte(t.Year() - 1900)
	buf[2] = byte(t.Month())
	buf[3] = byte(t.Day())
}
