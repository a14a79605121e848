package vision

import (
	"context"
)

// Client extracts structured invoice data from an image using a
// vision-capable model. Implementations return the raw textual completion;
// parsing into a record is the caller's concern.
type Client interface {
	ExtractInvoice(ctx context.Context, imageURL string) (string, error)
}
