package ports

import (
	"context"
	"io"
)

// ObjectStorage almacena un blob y devuelve su localizador público.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error)
}
