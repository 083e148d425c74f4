package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dbm "estatehub/internal/models/db_models"
	"estatehub/internal/repositories"
	"estatehub/pkg/utils"
)

type ExportServiceInterface interface {
	// PrintHTML renders a standalone page that opens the print dialog.
	PrintHTML(ctx context.Context, id uuid.UUID) ([]byte, error)
	// PDF renders a brochure. Images that cannot be fetched in time are
	// left out; the document is still produced.
	PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

// ImageFetcher downloads one image.
type ImageFetcher func(ctx context.Context, url string) ([]byte, error)

type ExportOptions struct {
	AppName      string
	ImageTimeout time.Duration
	MaxImages    int
	Parallelism  int
}

type ExportService struct {
	listingRepo repositories.ListingRepository
	accountRepo repositories.AccountRepository
	fetch       ImageFetcher
	opts        ExportOptions
	printTpl    *template.Template
	log         *zap.Logger
}

func NewExportService(
	listingRepo repositories.ListingRepository,
	accountRepo repositories.AccountRepository,
	fetch ImageFetcher,
	opts ExportOptions,
	log *zap.Logger,
) ExportServiceInterface {
	if opts.Parallelism <= 0 {
		opts.Parallelism = 4
	}
	if opts.ImageTimeout <= 0 {
		opts.ImageTimeout = 5 * time.Second
	}
	return &ExportService{
		listingRepo: listingRepo,
		accountRepo: accountRepo,
		fetch:       fetch,
		opts:        opts,
		printTpl:    template.Must(template.New("print").Funcs(template.FuncMap{"price": formatPrice}).Parse(printTemplate)),
		log:         log,
	}
}

// HTTPImageFetcher fetches images with client, rejecting bodies larger
// than maxBytes.
func HTTPImageFetcher(client *http.Client, maxBytes int64) ImageFetcher {
	return func(ctx context.Context, url string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		res, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("image fetch %s: status %d", url, res.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(res.Body, maxBytes+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > maxBytes {
			return nil, fmt.Errorf("image fetch %s: larger than %d bytes", url, maxBytes)
		}
		return data, nil
	}
}

// brochure is the data shared by the print and PDF renderings.
type brochure struct {
	AppName   string
	Listing   *dbm.Listing
	Features  []string
	Agent     *dbm.Account
	Generated string
}

func (s *ExportService) brochure(ctx context.Context, id uuid.UUID) (*brochure, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("load listing for export", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if listing == nil {
		return nil, utils.ErrListingNotFound
	}

	owner, err := s.accountRepo.FindById(ctx, listing.OwnerID)
	if err != nil {
		s.log.Warn("export without owner details", zap.Error(err))
		owner = nil
	}

	return &brochure{
		AppName:   s.opts.AppName,
		Listing:   listing,
		Features:  listing.Features.Data().Labels(),
		Agent:     owner,
		Generated: utils.FormatDisplay(time.Now()),
	}, nil
}

func (s *ExportService) PrintHTML(ctx context.Context, id uuid.UUID) ([]byte, error) {
	b, err := s.brochure(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.printTpl.Execute(&buf, b); err != nil {
		s.log.Error("render print page", zap.Error(err))
		return nil, utils.ErrExportFailed
	}
	return buf.Bytes(), nil
}

type loadedImage struct {
	data []byte
	kind string
}

// preload fetches up to MaxImages images concurrently, cover first. A
// failed or slow image yields a nil slot.
func (s *ExportService) preload(ctx context.Context, l *dbm.Listing) []*loadedImage {
	urls := orderedImages(l)
	if s.opts.MaxImages > 0 && len(urls) > s.opts.MaxImages {
		urls = urls[:s.opts.MaxImages]
	}

	out := make([]*loadedImage, len(urls))
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Parallelism)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, s.opts.ImageTimeout)
			defer cancel()

			data, err := s.fetch(fctx, u)
			if err != nil {
				s.log.Info("export image skipped", zap.String("url", u), zap.Error(err))
				return nil
			}
			kind := pdfImageType(data)
			if kind == "" {
				s.log.Info("export image type unsupported", zap.String("url", u))
				return nil
			}
			out[i] = &loadedImage{data: data, kind: kind}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// orderedImages puts the cover first and keeps the rest in display order.
func orderedImages(l *dbm.Listing) []string {
	if len(l.Images) == 0 {
		return nil
	}
	cover := dbm.ClampCoverIndex(l.CoverIndex, len(l.Images))
	out := make([]string, 0, len(l.Images))
	out = append(out, l.Images[cover])
	for i, u := range l.Images {
		if i != cover {
			out = append(out, u)
		}
	}
	return out
}

func pdfImageType(data []byte) string {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/jpeg"):
		return "JPG"
	case mt.Is("image/png"):
		return "PNG"
	case mt.Is("image/gif"):
		return "GIF"
	}
	return ""
}

func (s *ExportService) PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	b, err := s.brochure(ctx, id)
	if err != nil {
		return nil, "", err
	}
	images := s.preload(ctx, b.Listing)

	data, err := renderPDF(b, images)
	if err != nil {
		s.log.Error("render pdf", zap.String("listing_id", id.String()), zap.Error(err))
		return nil, "", utils.ErrExportFailed
	}
	return data, pdfFilename(b.Listing), nil
}

func pdfFilename(l *dbm.Listing) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(l.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	name := strings.Trim(sb.String(), "-")
	if name == "" {
		name = "listing-" + l.ID.String()[:8]
	}
	return name + ".pdf"
}

const (
	pageWidth   = 210.0
	pageMargin  = 15.0
	contentW    = pageWidth - 2*pageMargin
	coverMaxH   = 110.0
	thumbGap    = 6.0
	thumbW      = (contentW - thumbGap) / 2
	thumbMaxH   = 65.0
	lineH       = 6.0
	accentRed   = 11
	accentGreen = 93
	accentBlue  = 59
)

func renderPDF(b *brochure, images []*loadedImage) ([]byte, error) {
	l := b.Listing
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s - generated %s - page %d", b.AppName, b.Generated, pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ---------- Header ----------
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(contentW, 8, tr(l.Title), "", "L", false)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(contentW, lineH, tr(addressLine(l)), "", "L", false)

	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(accentRed, accentGreen, accentBlue)
	pdf.CellFormat(contentW, 9, tr(formatPrice(l)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ---------- Images ----------
	placeImages(pdf, images)

	// ---------- Facts ----------
	pdf.SetTextColor(20, 20, 20)
	section(pdf, tr, "Property details")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range factRows(l) {
		pdf.CellFormat(45, lineH, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW-45, lineH, tr(row[1]), "", 1, "L", false, 0, "")
	}

	if len(b.Features) > 0 {
		section(pdf, tr, "Features")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, lineH, tr(strings.Join(b.Features, "  |  ")), "", "L", false)
	}

	if strings.TrimSpace(l.Description) != "" {
		section(pdf, tr, "Description")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, 5, tr(l.Description), "", "L", false)
	}

	if b.Agent != nil {
		section(pdf, tr, "Contact")
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range contactLines(b.Agent) {
			pdf.CellFormat(contentW, lineH, tr(line), "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(title), "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// placeImages draws the first image as a wide cover and the rest as a
// two-column grid.
func placeImages(pdf *fpdf.Fpdf, images []*loadedImage) {
	col := 0
	var rowH float64
	for i, img := range images {
		if img == nil {
			continue
		}
		name := "img" + strconv.Itoa(i)
		info := pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: img.kind}, bytes.NewReader(img.data))
		if pdf.Err() {
			// A corrupt image must not abort the document.
			pdf.ClearError()
			continue
		}
		ratio := info.Height() / info.Width()

		if i == 0 {
			w := contentW
			h := math.Min(w*ratio, coverMaxH)
			w = h / ratio
			pdf.ImageOptions(name, pageMargin+(contentW-w)/2, pdf.GetY(), w, h, true, fpdf.ImageOptions{ImageType: img.kind}, 0, "")
			pdf.Ln(thumbGap)
			continue
		}

		h := math.Min(thumbW*ratio, thumbMaxH)
		w := h / ratio
		_, pageH := pdf.GetPageSize()
		if col == 0 && pdf.GetY()+h > pageH-pageMargin-10 {
			pdf.AddPage()
		}
		x := pageMargin + float64(col)*(thumbW+thumbGap)
		y := pdf.GetY()
		pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{ImageType: img.kind}, 0, "")
		rowH = math.Max(rowH, h)
		if col == 1 {
			pdf.SetY(y + rowH + thumbGap)
			rowH = 0
		}
		col = 1 - col
	}
	if col == 1 {
		pdf.SetY(pdf.GetY() + rowH + thumbGap)
	}
}

func addressLine(l *dbm.Listing) string {
	parts := []string{}
	for _, p := range []string{l.Address, l.Neighborhood, l.City, titleCase(l.Province)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func factRows(l *dbm.Listing) [][2]string {
	rows := [][2]string{
		{"Listing type", titleCase(string(l.ListingType))},
		{"Property type", titleCase(l.PropertyType)},
	}
	if l.Category != "" {
		rows = append(rows, [2]string{"Category", titleCase(l.Category)})
	}
	rows = append(rows,
		[2]string{"Bedrooms", strconv.Itoa(l.Bedrooms)},
		[2]string{"Bathrooms", strconv.Itoa(l.Bathrooms)},
		[2]string{"Garage", strconv.Itoa(l.Garage)},
	)
	if l.Area > 0 {
		rows = append(rows, [2]string{"Area", strconv.FormatFloat(l.Area, 'f', -1, 64) + " m2"})
	}
	if l.YearBuilt > 0 {
		rows = append(rows, [2]string{"Year built", strconv.Itoa(l.YearBuilt)})
	}
	furnished := "No"
	if l.Furnished {
		furnished = "Yes"
	}
	rows = append(rows, [2]string{"Furnished", furnished})
	return rows
}

func contactLines(a *dbm.Account) []string {
	name := a.Name
	if a.CompanyName != "" {
		name += " (" + a.CompanyName + ")"
	}
	lines := []string{name}
	if a.Phone != "" {
		lines = append(lines, "Phone: "+a.Phone)
	}
	lines = append(lines, "Email: "+a.Email)
	if a.Website != "" {
		lines = append(lines, a.Website)
	}
	return lines
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatPrice renders "ZMW 1,250,000" with a monthly suffix for rentals.
func formatPrice(l *dbm.Listing) string {
	whole := int64(math.Round(l.Price))
	digits := strconv.FormatInt(whole, 10)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	out := "ZMW " + sb.String()
	if l.ListingType == dbm.ListingTypeRent {
		out += " / month"
	}
	return out
}

const printTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Listing.Title}} - {{.AppName}}</title>
  <style>
    body { font-family: Georgia, "Times New Roman", serif; color: #1f2933; margin: 24px; }
    h1 { margin: 0 0 4px; font-size: 26px; }
    .address { color: #52606d; margin: 0 0 8px; }
    .price { color: #0b5d3b; font-size: 22px; font-weight: bold; margin: 0 0 16px; }
    .gallery { display: grid; grid-template-columns: 1fr 1fr; gap: 8px; }
    .gallery img { width: 100%; height: 200px; object-fit: cover; }
    .gallery img.cover { grid-column: span 2; height: 340px; }
    table { border-collapse: collapse; margin: 16px 0; }
    td { padding: 4px 16px 4px 0; }
    td.label { color: #52606d; }
    h2 { font-size: 16px; border-bottom: 1px solid #cbd2d9; padding-bottom: 4px; }
    .footer { margin-top: 24px; font-size: 12px; color: #7b8794; }
    @media print { body { margin: 0; } .gallery img { break-inside: avoid; } }
  </style>
</head>
<body onload="window.print()">
  <h1>{{.Listing.Title}}</h1>
  <p class="address">{{.Listing.Address}}{{if .Listing.City}}, {{.Listing.City}}{{end}}</p>
  <p class="price">{{price .Listing}}</p>
  {{if .Listing.Images}}
  <div class="gallery">
    {{range $i, $src := .Listing.Images}}<img src="{{$src}}" alt="" {{if eq $i $.Listing.CoverIndex}}class="cover"{{end}}>{{end}}
  </div>
  {{end}}
  <h2>Property details</h2>
  <table>
    <tr><td class="label">Listing type</td><td>{{.Listing.ListingType}}</td></tr>
    <tr><td class="label">Property type</td><td>{{.Listing.PropertyType}}</td></tr>
    <tr><td class="label">Bedrooms</td><td>{{.Listing.Bedrooms}}</td></tr>
    <tr><td class="label">Bathrooms</td><td>{{.Listing.Bathrooms}}</td></tr>
    <tr><td class="label">Garage</td><td>{{.Listing.Garage}}</td></tr>
    {{if .Listing.Area}}<tr><td class="label">Area</td><td>{{.Listing.Area}} m&sup2;</td></tr>{{end}}
    {{if .Listing.YearBuilt}}<tr><td class="label">Year built</td><td>{{.Listing.YearBuilt}}</td></tr>{{end}}
    <tr><td class="label">Furnished</td><td>{{if .Listing.Furnished}}Yes{{else}}No{{end}}</td></tr>
  </table>
  {{if .Features}}<h2>Features</h2><p>{{range $i, $f := .Features}}{{if $i}} &middot; {{end}}{{$f}}{{end}}</p>{{end}}
  {{if .Listing.Description}}<h2>Description</h2><p>{{.Listing.Description}}</p>{{end}}
  {{with .Agent}}
  <h2>Contact</h2>
  <p>{{.Name}}{{if .CompanyName}} ({{.CompanyName}}){{end}}<br>{{if .Phone}}{{.Phone}}<br>{{end}}{{.Email}}</p>
  {{end}}
  <p class="footer">{{.AppName}} &middot; generated {{.Generated}}</p>
</body>
</html>`
