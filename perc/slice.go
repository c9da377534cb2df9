// Copyright 2026 The flowperc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perc

import "os"

// ByteRange is a half-open byte range [Offset, Offset+Len) of a flat file.
type ByteRange struct {
	Offset int64
	Len    int64
}

// SliceReader reads a disjoint byte range of the input file. Implementors
// must return exactly range.Len bytes or an IoError -- no short reads.
type SliceReader interface {
	Read(r ByteRange) ([]byte, error)
}

// SliceWriter writes a disjoint byte range of the output file. Writes from
// distinct workers must target non-overlapping ranges; the file is
// created on first write.
type SliceWriter interface {
	Write(r ByteRange, data []byte) error
}

// FileSliceReader reads from an os.File opened read-only, grounded on
// gofem's offset-based persistence in fem/fileio.go.
type FileSliceReader struct {
	f *os.File
}

// OpenFileSliceReader opens path read-only for concurrent, disjoint reads.
func OpenFileSliceReader(path string) (*FileSliceReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIoError("cannot open %q for reading: %v", path, err)
	}
	return &FileSliceReader{f: f}, nil
}

// Read returns exactly r.Len bytes starting at r.Offset.
func (s *FileSliceReader) Read(r ByteRange) ([]byte, error) {
	buf := make([]byte, r.Len)
	n, err := s.f.ReadAt(buf, r.Offset)
	if err != nil || int64(n) != r.Len {
		return nil, NewIoError("short read at offset %d: got %d of %d bytes (%v)", r.Offset, n, r.Len, err)
	}
	return buf, nil
}

// Close closes the underlying file.
func (s *FileSliceReader) Close() error { return s.f.Close() }

// FileSliceWriter writes to an os.File opened for writing; the file is
// created, if it does not exist, by OpenFileSliceWriter.
type FileSliceWriter struct {
	f *os.File
}

// OpenFileSliceWriter opens (creating if necessary) path for concurrent,
// disjoint writes.
func OpenFileSliceWriter(path string, size int64) (*FileSliceWriter, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, NewIoError("cannot open %q for writing: %v", path, err)
	}
	if err := f.Truncate(size); err != nil {
		return nil, NewIoError("cannot size %q to %d bytes: %v", path, size, err)
	}
	return &FileSliceWriter{f: f}, nil
}

// Write writes len(data) bytes at r.Offset. len(data) must equal r.Len.
func (s *FileSliceWriter) Write(r ByteRange, data []byte) error {
	if int64(len(data)) != r.Len {
		return NewIoError("write size mismatch: range wants %d bytes, got %d", r.Len, len(data))
	}
	n, err := s.f.WriteAt(data, r.Offset)
	if err != nil || int64(n) != r.Len {
		return NewIoError("short write at offset %d: wrote %d of %d bytes (%v)", r.Offset, n, r.Len, err)
	}
	return nil
}

// Close closes the underlying file.
func (s *FileSliceWriter) Close() error { return s.f.Close() }

// MemSliceReader reads from an in-memory byte slice; used by tests and by
// single-process callers that already hold the whole volume in memory.
type MemSliceReader struct {
	Data []byte
}

// Read returns exactly r.Len bytes starting at r.Offset.
func (s *MemSliceReader) Read(r ByteRange) ([]byte, error) {
	end := r.Offset + r.Len
	if r.Offset < 0 || end > int64(len(s.Data)) {
		return nil, NewIoError("read range [%d,%d) out of bounds for %d-byte buffer", r.Offset, end, len(s.Data))
	}
	out := make([]byte, r.Len)
	copy(out, s.Data[r.Offset:end])
	return out, nil
}

// MemSliceWriter writes into an in-memory byte slice; used by tests.
type MemSliceWriter struct {
	Data []byte
}

// NewMemSliceWriter returns a writer backed by a zeroed buffer of the given size.
func NewMemSliceWriter(size int) *MemSliceWriter {
	return &MemSliceWriter{Data: make([]byte, size)}
}

// Write writes len(data) bytes at r.Offset. len(data) must equal r.Len.
func (s *MemSliceWriter) Write(r ByteRange, data []byte) error {
	end := r.Offset + r.Len
	if int64(len(data)) != r.Len {
		return NewIoError("write size mismatch: range wants %d bytes, got %d", r.Len, len(data))
	}
	if r.Offset < 0 || end > int64(len(s.Data)) {
		return NewIoError("write range [%d,%d) out of bounds for %d-byte buffer", r.Offset, end, len(s.Data))
	}
	copy(s.Data[r.Offset:end], data)
	return nil
}
