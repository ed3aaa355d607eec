package http

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// compressibleTypes are the response content types worth compressing.
var compressibleTypes = []string{"application/json", "text/plain"}

// withGZip inflates gzip request bodies and compresses JSON and text
// responses for clients that accept gzip. Whether to compress is decided on
// the first WriteHeader, once the content type is known.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.Header.Get("Content-Encoding"), "gzip") && req.Body != nil {
			body, err := newGzipBody(req.Body)
			if err != nil {
				http.Error(w, "invalid gzip body", http.StatusBadRequest)
				return
			}
			req.Body = body
			req.Header.Del("Content-Encoding")
			req.ContentLength = -1
		}

		if !strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, req)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.finish()

		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gw, req)
	})
}

type gzipBody struct {
	reader *gzip.Reader
	source io.ReadCloser
}

func newGzipBody(source io.ReadCloser) (*gzipBody, error) {
	reader := gzipReaderPool.Get().(*gzip.Reader)
	if err := reader.Reset(source); err != nil {
		gzipReaderPool.Put(reader)
		return nil, err
	}
	return &gzipBody{reader: reader, source: source}, nil
}

func (b *gzipBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *gzipBody) Close() error {
	if b.reader == nil {
		return nil
	}
	err := b.reader.Close()
	gzipReaderPool.Put(b.reader)
	b.reader = nil
	return errors.Join(err, b.source.Close())
}

type gzipResponseWriter struct {
	http.ResponseWriter

	writer      *gzip.Writer
	wroteHeader bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if compressible(w.Header().Get("Content-Type")) && statusCode != http.StatusNoContent {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
		w.writer = gzipWriterPool.Get().(*gzip.Writer)
		w.writer.Reset(w.ResponseWriter)
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(data))
		}
		w.WriteHeader(http.StatusOK)
	}
	if w.writer == nil {
		return w.ResponseWriter.Write(data)
	}
	return w.writer.Write(data)
}

// finish flushes the compressed stream and returns the writer to the pool.
func (w *gzipResponseWriter) finish() {
	if w.writer == nil {
		return
	}
	_ = w.writer.Close()
	gzipWriterPool.Put(w.writer)
	w.writer = nil
}

func compressible(contentType string) bool {
	for _, t := range compressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}
