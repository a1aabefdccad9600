package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

type brotliResponseWriter struct {
	http.ResponseWriter
	bw          *brotli.Writer
	wroteHeader bool
	noBody      bool
}

// bodyless reports whether a final status forbids a response body.
func bodyless(status int) bool {
	return status == http.StatusNoContent || status == http.StatusNotModified
}

func (w *brotliResponseWriter) WriteHeader(status int) {
	// Informational headers precede the real response.
	if status >= 100 && status < 200 {
		w.ResponseWriter.WriteHeader(status)
		return
	}
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if bodyless(status) {
		w.noBody = true
		w.Header().Del("Content-Encoding")
	}
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(status)
}

func (w *brotliResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.noBody {
		return 0, http.ErrBodyNotAllowed
	}
	return w.bw.Write(p)
}

// Close flushes the brotli stream, or does nothing for a bodyless response.
func (w *brotliResponseWriter) Close() error {
	if w.noBody {
		return nil
	}
	return w.bw.Close()
}

// brotliMiddleware compresses responses for clients that accept br.
func brotliMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if !acceptsBrotli(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "br")
		bw := &brotliResponseWriter{
			ResponseWriter: w,
			bw:             brotli.NewWriterLevel(w, brotli.DefaultCompression),
		}
		defer func() {
			if err := bw.Close(); err != nil {
				slog.Debug("closing brotli stream", "path", r.URL.Path, "error", err)
			}
		}()

		next.ServeHTTP(bw, r)
	})
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.TrimSpace(coding) != "br" {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}
