package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// execute streams a job's bytes according to the plan and returns the final
// storage key. Progress is reported on a 0–100 scale regardless of strategy.
func (m *Manager) execute(ctx context.Context, plan *Plan, src Source, progress func(pct int)) (string, error) {
	switch plan.Strategy {
	case StrategyMultipart:
		return m.uploadMultipart(ctx, plan, src, progress)
	case StrategyDirect:
		return m.uploadDirect(ctx, plan, src, progress)
	default:
		return "", &TransferError{Err: fmt.Errorf("unknown upload strategy %q", plan.Strategy)}
	}
}

// uploadDirect issues a single PUT of the whole payload to the presigned URL,
// converting the transport's byte counter into continuous percentages.
func (m *Manager) uploadDirect(ctx context.Context, plan *Plan, src Source, progress func(pct int)) (string, error) {
	body, err := src.Open()
	if err != nil {
		return "", &TransferError{Err: fmt.Errorf("open source: %w", err)}
	}
	defer body.Close()

	total := src.Size()
	_, err = m.transport.Put(ctx, plan.PutURL, body, total, src.ContentType(), func(sent int64) {
		if total > 0 {
			progress(int(sent * 100 / total))
		}
	})
	if err != nil {
		return "", mapTransferErr(err)
	}
	progress(100)
	return plan.ObjectKey, nil
}

// uploadMultipart streams the payload in sequential parts, one presigned URL
// each, then completes the session with the ordered ETag list. Progress moves
// per completed part, so updates are chunkier than the direct strategy's.
func (m *Manager) uploadMultipart(ctx context.Context, plan *Plan, src Source, progress func(pct int)) (string, error) {
	if plan.PartSize <= 0 || len(plan.PartURLs) == 0 {
		return "", &TransferError{Err: errors.New("invalid multipart plan")}
	}

	body, err := src.Open()
	if err != nil {
		return "", &TransferError{Err: fmt.Errorf("open source: %w", err)}
	}
	defer body.Close()

	total := src.Size()
	parts := make([]CompletedPart, 0, len(plan.PartURLs))
	var done int64

	for i, partURL := range plan.PartURLs {
		if ctx.Err() != nil {
			return "", ErrCancelled
		}

		partLen := plan.PartSize
		if remaining := total - done; remaining < partLen {
			partLen = remaining
		}

		etag, err := m.transport.Put(ctx, partURL, io.LimitReader(body, partLen), partLen, "", nil)
		if err != nil {
			return "", mapTransferErr(err)
		}

		parts = append(parts, CompletedPart{PartNumber: i + 1, ETag: etag})
		done += partLen
		if total > 0 {
			progress(int(done * 100 / total))
		}
	}

	if err := m.backend.CompleteMultipart(ctx, plan.ObjectKey, plan.UploadID, parts); err != nil {
		return "", mapTransferErr(err)
	}
	return plan.ObjectKey, nil
}

// mapTransferErr distinguishes cooperative cancellation from genuine
// transport failures.
func mapTransferErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrCancelled) {
		return ErrCancelled
	}
	return &TransferError{Err: err}
}
