package pdf

import (
	"context"
	"fmt"

	"github.com/facturio/backend/internal/application/billing"
	"github.com/facturio/backend/internal/application/notification"
)

// StubRenderer produces a minimal one-page PDF carrying only the
// document number. Used in development and when Chrome is not
// available; the emailed attachment is a placeholder, not a layout.
type StubRenderer struct{}

// NewStubRenderer creates the stub renderer.
func NewStubRenderer() *StubRenderer {
	return &StubRenderer{}
}

// RenderDocument builds a bare PDF by hand. The structure is the
// smallest valid PDF that common viewers accept.
func (StubRenderer) RenderDocument(ctx context.Context, ref billing.DocumentRef) ([]byte, error) {
	text := fmt.Sprintf("BT /F1 18 Tf 72 720 Td (%s) Tj ET", escapePDFText(ref.Number))

	var buf []byte
	offsets := make([]int, 0, 5)
	write := func(s string) {
		buf = append(buf, s...)
	}
	object := func(s string) {
		offsets = append(offsets, len(buf))
		write(s)
	}

	write("%PDF-1.4\n")
	object("1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n")
	object("2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj\n")
	object("3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >> endobj\n")
	object(fmt.Sprintf("4 0 obj << /Length %d >> stream\n%s\nendstream endobj\n", len(text), text))
	object("5 0 obj << /Type /Font /Subtype /Type1 /BaseFont /Helvetica >> endobj\n")

	xrefStart := len(buf)
	write(fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1))
	for _, off := range offsets {
		write(fmt.Sprintf("%010d 00000 n \n", off))
	}
	write(fmt.Sprintf("trailer << /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefStart))

	return buf, nil
}

func escapePDFText(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', ')', '\\':
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

var _ notification.PDFRenderer = (*StubRenderer)(nil)
