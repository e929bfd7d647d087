package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/phpdave11/gofpdf"
	fpdi "github.com/phpdave11/gofpdf/contrib/gofpdi"

	apperrors "github.com/pulsecrm/esign/internal/errors"
)

// Signature block geometry, in PDF points measured from the bottom-left corner
// of the last page. Four text lines at 20pt spacing with a horizontal rule
// 10pt above the first line.
const (
	stampFontFamily = "Helvetica"
	stampFontSize   = 12.0
	stampMarginX    = 50.0
	stampBaselineY  = 100.0
	stampLineStep   = 20.0
	stampRuleEndX   = 300.0
)

// pdfStamper implements PDFStamper by rebuilding the document page by page
// (gofpdf + gofpdi page import) and drawing the signature block on the last
// page. The input is validated with pdfcpu first so malformed upstream bytes
// surface as an upstream error instead of a deep parser failure.
type pdfStamper struct {
	conf *model.Configuration
}

// NewPDFStamper creates a new PDFStamper instance.
func NewPDFStamper() PDFStamper {
	return &pdfStamper{conf: model.NewDefaultConfiguration()}
}

// Stamp draws the signature block onto the last page and serializes the result.
// The output has exactly as many pages as the input; the stamp is baked into
// the page content, not added as a removable annotation.
func (s *pdfStamper) Stamp(pdf []byte, block SignatureBlock) ([]byte, error) {
	rs := bytes.NewReader(pdf)

	if err := api.Validate(rs, s.conf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, fmt.Sprintf("invalid source pdf: %v", err))
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.Wrap(err, "failed to rewind pdf reader")
	}
	dims, err := api.PageDims(rs, s.conf)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, fmt.Sprintf("failed to read pdf page sizes: %v", err))
	}
	if len(dims) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, "source pdf has no pages")
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: dims[0].Width, Ht: dims[0].Height},
	})
	doc.SetAutoPageBreak(false, 0)

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.Wrap(err, "failed to rewind pdf reader")
	}
	var src io.ReadSeeker = rs

	for i, dim := range dims {
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: dim.Width, Ht: dim.Height})

		tpl := fpdi.ImportPageFromStream(doc, &src, i+1, "/MediaBox")
		fpdi.UseImportedTemplate(doc, tpl, 0, 0, dim.Width, dim.Height)
	}

	s.drawBlock(doc, dims[len(dims)-1].Height, block)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, apperrors.Wrap(err, "failed to serialize stamped pdf")
	}
	return buf.Bytes(), nil
}

// drawBlock draws the four attribution lines and the rule above them onto the
// current (last) page. gofpdf measures y from the top of the page, so the
// bottom-up coordinates are converted here.
func (s *pdfStamper) drawBlock(doc *gofpdf.Fpdf, pageHeight float64, block SignatureBlock) {
	doc.SetFont(stampFontFamily, "", stampFontSize)
	doc.SetTextColor(0, 0, 0)
	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(1)

	lines := []string{
		fmt.Sprintf("Electronically signed by: %s", block.Signature),
		fmt.Sprintf("Date: %s", block.SignedAt.Format("January 2, 2006 3:04:05 PM MST")),
		fmt.Sprintf("IP Address: %s", block.IPAddress),
		fmt.Sprintf("Document ID: %s", block.DocumentID),
	}

	for i, line := range lines {
		y := pageHeight - (stampBaselineY - float64(i)*stampLineStep)
		doc.Text(stampMarginX, y, line)
	}

	ruleY := pageHeight - (stampBaselineY + 10)
	doc.Line(stampMarginX, ruleY, stampRuleEndX, ruleY)
}
