package ticket

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RenderBatch writes count tickets for recipient into dir as
// ticket_<recipient>-<n>.png, n = 1..count. Existing files are overwritten.
// progress, when non-nil, is called after each file is written.
func RenderBatch(ctx context.Context, r *Renderer, dir, recipient string, count int, progress func(n int, path string)) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for n := 1; n <= count; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		req := Request{RecipientID: recipient, Sequence: n, Variant: VariantPrimary}
		data, err := r.Render(req)
		if err != nil {
			return fmt.Errorf("ticket %d: %w", n, err)
		}

		path := filepath.Join(dir, "ticket_"+sanitize(req.Payload())+".png")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write ticket %d: %w", n, err)
		}
		if progress != nil {
			progress(n, path)
		}
	}
	return nil
}
