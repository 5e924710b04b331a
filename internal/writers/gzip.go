// internal/writers/gzip.go
package writers

import (
	"bufio"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/pgzip"
)

type stackedWriteCloser struct {
	io.Writer
	closers []io.Closer // closed in order: innermost first
}

func (s *stackedWriteCloser) Close() error {
	var err error
	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type flushCloser struct{ *bufio.Writer }

func (f flushCloser) Close() error { return f.Flush() }

// Create opens path for buffered writing, gzip-compressing when the
// name ends in .gz.
func Create(path string) (io.WriteCloser, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriterSize(fh, 64*1024)
	if strings.HasSuffix(path, ".gz") {
		zw := gzip.NewWriter(bw)
		return &stackedWriteCloser{
			Writer:  zw,
			closers: []io.Closer{zw, flushCloser{bw}, fh},
		}, nil
	}
	return &stackedWriteCloser{
		Writer:  bw,
		closers: []io.Closer{flushCloser{bw}, fh},
	}, nil
}
