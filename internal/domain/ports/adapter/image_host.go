package adapter

import "context"

// ImageHost republishes a transient image under a durable public URL.
type ImageHost interface {
	Upload(ctx context.Context, sourceURL string) (string, error)
}
