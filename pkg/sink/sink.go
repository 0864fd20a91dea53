// Package sink writes the flattened table to a remote tabular store. The
// core contract is small: clear a range, write rows in bounded chunks
// that never split a row, optionally apply presentation formatting.
package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/robertrahardja/mac-contacts-extract/internal/logger"
)

// Sink is a remote tabular store. Range specs use "{sheet}!{cells}"
// addressing, e.g. "Sheet1!A1".
type Sink interface {
	// Clear empties the range.
	Clear(ctx context.Context, rangeSpec string) error

	// Write puts rows into the store starting at the range's top-left
	// cell. All rows must have equal length.
	Write(ctx context.Context, rangeSpec string, rows [][]string) error

	// Format applies basic presentation formatting.
	Format(ctx context.Context, spec FormatSpec) error
}

// FormatSpec describes the presentation pass after upload.
type FormatSpec struct {
	BoldHeader        bool
	FreezeHeader      bool
	AutoResizeColumns int // number of columns to auto-resize; 0 skips
}

// Chunk splits rows into size-bounded batches. A chunk boundary never
// splits a logical row, and the concatenation of all chunks equals the
// input.
func Chunk(rows [][]string, size int) [][][]string {
	if size <= 0 || size >= len(rows) {
		if len(rows) == 0 {
			return nil
		}
		return [][][]string{rows}
	}
	chunks := make([][][]string, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// Uploader drives a Sink through the full clear/write/format sequence.
type Uploader struct {
	sink      Sink
	sheetName string
	chunkSize int
	delay     time.Duration
}

// NewUploader creates an uploader targeting one sheet. chunkSize bounds
// rows per write request; delay is a courtesy throttle between chunks.
func NewUploader(s Sink, sheetName string, chunkSize int, delay time.Duration) *Uploader {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &Uploader{sink: s, sheetName: sheetName, chunkSize: chunkSize, delay: delay}
}

// Upload clears the sheet and writes header+rows in chunks. The header is
// rect[0] and lands exactly once, at the top; chunked and one-shot
// uploads produce the same final sheet content.
func (u *Uploader) Upload(ctx context.Context, rect [][]string) error {
	if len(rect) == 0 {
		return fmt.Errorf("upload: empty table")
	}

	clearRange := fmt.Sprintf("%s!A:ZZ", u.sheetName)
	if err := u.sink.Clear(ctx, clearRange); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	chunks := Chunk(rect, u.chunkSize)
	offset := 1
	for i, chunk := range chunks {
		rangeSpec := fmt.Sprintf("%s!A%d", u.sheetName, offset)
		if err := u.sink.Write(ctx, rangeSpec, chunk); err != nil {
			return fmt.Errorf("write %s: %w", rangeSpec, err)
		}
		offset += len(chunk)

		logger.Debug("chunk written",
			"chunk", i+1,
			"chunks", len(chunks),
			"rows", len(chunk))

		if u.delay > 0 && i < len(chunks)-1 {
			select {
			case <-time.After(u.delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	if err := u.sink.Format(ctx, FormatSpec{
		BoldHeader:        true,
		FreezeHeader:      true,
		AutoResizeColumns: len(rect[0]),
	}); err != nil {
		// Content landed; formatting is cosmetic.
		logger.Warn("formatting failed", "error", err)
	}
	return nil
}
