package filesystem

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/desertwitch/osbridge/internal/schema"
	"github.com/zeebo/blake3"
)

//nolint:containedctx
type contextReader struct {
	ctx    context.Context
	reader io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	select {
	case <-cr.ctx.Done():
		return 0, context.Canceled
	default:
		return cr.reader.Read(p)
	}
}

// ReadFile reads the whole file at path.
func (h *Handler) ReadFile(path string) ([]byte, error) {
	f, err := h.Open(path, schema.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return data, nil
}

// WriteFile creates or truncates the file at path and writes data to it.
func (h *Handler) WriteFile(path string, data []byte, perm uint32) error {
	f, err := h.OpenFile(path, schema.O_WRONLY|schema.O_CREAT|schema.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// Checksum returns the hex-encoded BLAKE3 digest of the file at path.
func (h *Handler) Checksum(path string) (string, error) {
	f, err := h.Open(path, schema.O_RDONLY)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("(fs-checksum) failed to hash file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// CopyFile copies src to dst, creating or truncating dst with perm. The
// source is hashed while it is read, and once dst is synced it is read back
// from disk and hashed again. The copy fails with [ErrHashMismatch] if the
// digests differ. The copy stops early when ctx is canceled.
func (h *Handler) CopyFile(ctx context.Context, src, dst string, perm uint32) error {
	var transferComplete bool

	srcFile, err := h.Open(src, schema.O_RDONLY)
	if err != nil {
		return fmt.Errorf("(fs-copy) failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := h.OpenFile(dst, schema.O_WRONLY|schema.O_CREAT|schema.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("(fs-copy) failed to open destination file: %w", err)
	}
	defer func() {
		dstFile.Close()
		if !transferComplete {
			_ = h.Remove(dst)
		}
	}()

	srcHasher := blake3.New()

	ctxReader := &contextReader{
		ctx:    ctx,
		reader: io.TeeReader(srcFile, srcHasher),
	}

	if _, err := io.Copy(dstFile, ctxReader); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("(fs-copy) transfer canceled: %w", err)
		}

		return fmt.Errorf("(fs-copy) failed to copy file: %w", err)
	}

	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("(fs-copy) failed to sync destination: %w", err)
	}

	srcChecksum := hex.EncodeToString(srcHasher.Sum(nil))

	dstChecksum, err := h.Checksum(dst)
	if err != nil {
		return fmt.Errorf("(fs-copy) failed to verify destination: %w", err)
	}

	if srcChecksum != dstChecksum {
		return fmt.Errorf("(fs-copy) %w: %s (src) != %s (dst)", ErrHashMismatch, srcChecksum, dstChecksum)
	}

	transferComplete = true

	return nil
}
