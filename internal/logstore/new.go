package logstore

import (
	"context"
	"fmt"
)

// Config selects and configures the stores available for uploads.
type Config struct {
	S3   S3Config
	HTTP HTTPConfig
}

// New builds a Composite able to serve base. file:// and http(s):// are
// always registered; the S3 client is only created when base is an s3://
// location, since loading AWS configuration touches the environment.
func New(ctx context.Context, base string, cfg Config) (*Composite, error) {
	handlers := map[string]Store{
		SchemeFile:  FileStore{},
		SchemeHTTP:  NewHTTPStore(cfg.HTTP),
		SchemeHTTPS: NewHTTPStore(cfg.HTTP),
	}
	scheme, _ := ParseLocation(base)
	switch scheme {
	case "", SchemeFile, SchemeHTTP, SchemeHTTPS:
	case SchemeS3:
		s3Store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		handlers[SchemeS3] = s3Store
	default:
		return nil, fmt.Errorf("logstore: unsupported log base scheme %q", scheme)
	}
	return NewComposite(handlers), nil
}
