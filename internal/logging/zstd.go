package logging

import (
	"net/url"
	"os"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

const zstdScheme = "zstd"

var zstdMagic = [4]byte{0x28, 0xB5, 0x2F, 0xFD}

// newCompressedSink opens u.Path for zstd-compressed logging. New frames are
// appended to a file that already holds zstd data; any other existing
// content is truncated.
func newCompressedSink(u *url.URL) (zap.Sink, error) {
	filePath := u.Path

	flags := os.O_CREATE | os.O_WRONLY
	if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
		if isZstdFile(filePath) {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
	}

	file, err := os.OpenFile(filePath, flags, 0o644)
	if err != nil {
		return nil, err
	}
	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &compressedSink{file: file, encoder: encoder}, nil
}

func isZstdFile(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer func() {
		_ = file.Close()
	}()

	var header [4]byte
	n, err := file.Read(header[:])
	if err != nil || n < len(header) {
		return false
	}
	return header == zstdMagic
}

type compressedSink struct {
	file    *os.File
	encoder *zstd.Encoder
}

// Write reports len(p) on success regardless of the compressed size.
func (s *compressedSink) Write(p []byte) (int, error) {
	if _, err := s.encoder.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *compressedSink) Sync() error {
	if err := s.encoder.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close finalizes the zstd frame and always closes the file.
func (s *compressedSink) Close() error {
	encErr := s.encoder.Close()
	fileErr := s.file.Close()
	if encErr != nil {
		return encErr
	}
	return fileErr
}
