// Package bytecode serializes a chunk.Chunk to Timid's on-disk wire
// format: a magic prefix, a constant-pool length header, the constant
// records, then the flat code stream — see SPEC_FULL.md §11.
package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"timid/chunk"
)

const (
	magic0 = 0xFA
	magic1 = 0xCC
)

// Writer serializes chunks to disk.
type Writer struct{}

// New returns a Writer.
func New() *Writer { return &Writer{} }

// Write renders c to Timid's binary format and writes it to path
// atomically (via a temp file in the same directory, renamed into place).
// The caller is responsible for checking the compiling Diagnostics'
// HadError flag first — Write has no diagnostics of its own.
func (w *Writer) Write(path string, c *chunk.Chunk) error {
	buf, err := Encode(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".timid-bytecode-*")
	if err != nil {
		return fmt.Errorf("bytecode: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("bytecode: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("bytecode: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("bytecode: renaming temp file into place: %w", err)
	}
	return nil
}

// Encode renders c to Timid's binary format without touching the
// filesystem — used directly by tests and by Write.
func Encode(c *chunk.Chunk) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(magic0)
	buf.WriteByte(magic1)

	var countHeader [4]byte
	binary.LittleEndian.PutUint32(countHeader[:], uint32(len(c.Constants)))
	buf.Write(countHeader[:])

	for i, v := range c.Constants {
		if err := encodeValue(&buf, v); err != nil {
			return nil, fmt.Errorf("bytecode: constant %d: %w", i, err)
		}
	}

	buf.Write(c.Code)

	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v chunk.Value) error {
	buf.WriteByte(byte(v.Type))
	switch v.Type {
	case chunk.ValueInt:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v.Int))
		buf.Write(b[:])
	case chunk.ValueFloat:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v.Float))
		buf.Write(b[:])
	case chunk.ValueString:
		buf.WriteString(v.Str)
		buf.WriteByte(0)
	default:
		return fmt.Errorf("unknown constant type %d", v.Type)
	}
	return nil
}
