package exposure

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ExportShiftJIS converts the UTF-8 conversation log into a Shift_JIS copy
// for spreadsheet tools on Japanese Windows. Runes outside Shift_JIS are
// replaced rather than failing the export; the canonical log stays lossless
// UTF-8 and is never touched.
func ExportShiftJIS(srcPath, dstPath string) (int64, error) {
	if srcPath == "" {
		return 0, errors.New("ExportShiftJIS: srcPath is empty")
	}
	if dstPath == "" {
		return 0, errors.New("ExportShiftJIS: dstPath is empty")
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("ExportShiftJIS: open source: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("ExportShiftJIS: create destination: %w", err)
	}

	enc := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	w := transform.NewWriter(dst, enc)

	n, err := io.Copy(w, src)
	if err != nil {
		_ = w.Close()
		_ = dst.Close()
		return n, fmt.Errorf("ExportShiftJIS: transcode: %w", err)
	}
	if err := w.Close(); err != nil {
		_ = dst.Close()
		return n, fmt.Errorf("ExportShiftJIS: flush: %w", err)
	}
	if err := dst.Close(); err != nil {
		return n, fmt.Errorf("ExportShiftJIS: close destination: %w", err)
	}
	return n, nil
}
