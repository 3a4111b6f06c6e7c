package middleware

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/rechargehub/pkg/response"
)

// MaxUploadBytes is the ceiling for a single uploaded file.
const MaxUploadBytes = 5 << 20 // 5 MiB

// allowedImageTypes is the MIME allow-list for profile photos.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// UploadedFile is a fully buffered multipart file exposed to handlers.
type UploadedFile struct {
	Data        []byte
	ContentType string
	Filename    string
}

// uploadKey is the unexported context key holding the buffered file.
type uploadKey struct{}

// FileFromCtx returns the file buffered by Upload, or nil when absent.
func FileFromCtx(ctx context.Context) *UploadedFile {
	if f, ok := ctx.Value(uploadKey{}).(*UploadedFile); ok {
		return f
	}
	return nil
}

// WithFile stores a buffered file in ctx. Exposed for handler tests.
func WithFile(ctx context.Context, f *UploadedFile) context.Context {
	return context.WithValue(ctx, uploadKey{}, f)
}

// Upload accepts a single multipart field, buffers it fully in memory, and
// rejects files whose declared MIME type is not an allowed image or whose
// size exceeds MaxUploadBytes. The handler persists the buffered bytes.
func Upload(field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Cap the whole request body; a too-large file fails the parse.
			r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+4096)

			if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
				response.BadRequest(w, "File too large or malformed multipart body (max 5 MiB)")
				return
			}

			file, header, err := r.FormFile(field)
			if err != nil {
				response.BadRequest(w, "No file uploaded")
				return
			}
			defer file.Close()

			if header.Size > MaxUploadBytes {
				response.BadRequest(w, "File too large (max 5 MiB)")
				return
			}

			contentType := strings.ToLower(header.Header.Get("Content-Type"))
			if !allowedImageTypes[contentType] {
				response.BadRequest(w, "Only image files are allowed (jpeg, jpg, png, gif)")
				return
			}

			data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
			if err != nil {
				response.BadRequest(w, "Failed to read uploaded file")
				return
			}
			if len(data) > MaxUploadBytes {
				response.BadRequest(w, "File too large (max 5 MiB)")
				return
			}

			uploaded := &UploadedFile{
				Data:        data,
				ContentType: contentType,
				Filename:    header.Filename,
			}
			next.ServeHTTP(w, r.WithContext(WithFile(r.Context(), uploaded)))
		})
	}
}
