package sigscreen

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// Compression identifies the compression wrapper, if any, around a data file.
type Compression byte

const (
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

// Magic byte signatures, from https://stackoverflow.com/a/19127748/199475
var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// DetectCompression sniffs the first bytes of the reader against known
// compression signatures. The reader is consumed; callers that need to
// re-read must seek back themselves.
func DetectCompression(r io.Reader) (Compression, error) {
	buff := make([]byte, 6)
	if _, err := r.Read(buff); err != nil {
		return CompressionInvalid, err
	}

Outer:
	for dt, sig := range compressionSigs {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return CompressionNone, nil
}

// OpenMaybeCompressed opens the named file and transparently decompresses
// gzip, zip, xz, compress(1), or bzip2 content. Expression matrices and
// gene set databases are routinely distributed gzipped, so every loader in
// this module goes through here.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	rc, err := MaybeDecompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if rc == nil {
		return f, nil
	}

	return &wrappedReadCloser{Reader: rc, underlying: f}, nil
}

// MaybeDecompress wraps f in the appropriate decompressor, or returns nil if
// the file is not compressed.
func MaybeDecompress(f *os.File) (io.Reader, error) {
	dt, err := DetectCompression(f)
	if err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch dt {
	case CompressionGzip:
		return gzip.NewReader(f)
	case CompressionZip:
		return zipstream.NewReader(f), nil
	case CompressionBZip2:
		return bzip2.NewReader(f), nil
	case CompressionXZ:
		return xz.NewReader(f, 0)
	case CompressionZ:
		return zlib.NewReader(f)
	}

	return nil, nil
}

// wrappedReadCloser closes the underlying file rather than the decompressor,
// which for several of the wrapped formats has no Close of its own.
type wrappedReadCloser struct {
	io.Reader
	underlying *os.File
}

func (c *wrappedReadCloser) Close() error {
	return c.underlying.Close()
}
