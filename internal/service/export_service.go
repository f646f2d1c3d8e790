package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/gen2brain/go-fitz"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"stock-analyst-agent/internal/domain"
)

const pageMarginMM = 19

// ExportServiceImpl implements domain.ExportService
type ExportServiceImpl struct {
	store    domain.ReportStore
	cfg      domain.Config
	logger   domain.Logger
	markdown goldmark.Markdown
}

// NewExportService creates a new export service instance
func NewExportService(store domain.ReportStore, cfg domain.Config, logger domain.Logger) *ExportServiceImpl {
	if path := cfg.GetWkhtmltopdfPath(); path != "" {
		wkhtmltopdf.SetPath(path)
	}
	return &ExportServiceImpl{
		store:  store,
		cfg:    cfg,
		logger: logger,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// CheckRenderer implements domain.ExportService.
func (s *ExportServiceImpl) CheckRenderer() error {
	if _, err := wkhtmltopdf.NewPDFGenerator(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRendererUnavailable, err)
	}
	return nil
}

// EnsureFonts implements domain.ExportService.
func (s *ExportServiceImpl) EnsureFonts(ctx context.Context) error {
	return ensureFonts(ctx, s.cfg.GetFontDir(), s.logger)
}

// ExportReport implements domain.ExportService.
func (s *ExportServiceImpl) ExportReport(ctx context.Context, reportID string) (*domain.ExportResult, error) {
	report, err := s.store.Load(reportID)
	if err != nil {
		return nil, err
	}

	if err := s.EnsureFonts(ctx); err != nil {
		// Render anyway; the system fallback font is ugly but usable.
		s.logger.Warn("CJK fonts unavailable, falling back to system fonts", "error", err)
	}

	html, err := s.renderHTML(report)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRendererUnavailable, err)
	}
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(pageMarginMM)
	pdfg.MarginRight.Set(pageMarginMM)
	pdfg.MarginBottom.Set(pageMarginMM)
	pdfg.MarginLeft.Set(pageMarginMM)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.EnableLocalFileAccess.Set(true)
	page.Encoding.Set("utf-8")
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}

	outDir := s.cfg.GetPDFOutputPath()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pdf output dir: %w", err)
	}

	filename := fmt.Sprintf("股票分析报告_%s_%s_%s.pdf",
		report.Metadata.TSCode, report.Metadata.FileDate, report.Metadata.FileTime)
	outPath := filepath.Join(outDir, filename)
	if err := pdfg.WriteFile(outPath); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	s.logger.Info("Report exported to PDF", "report_id", reportID, "path", outPath)
	return &domain.ExportResult{Filename: filename, Path: outPath}, nil
}

// ListExports implements domain.ExportService.
func (s *ExportServiceImpl) ListExports() ([]*domain.ExportedPDF, error) {
	outDir := s.cfg.GetPDFOutputPath()
	entries, err := os.ReadDir(outDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.ExportedPDF{}, nil
		}
		return nil, fmt.Errorf("failed to read pdf output dir: %w", err)
	}

	pdfs := make([]*domain.ExportedPDF, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		pdf := &domain.ExportedPDF{
			Filename:   entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		}
		// 股票分析报告_<ts_code>_<date>_<time>.pdf
		parts := strings.Split(strings.TrimSuffix(entry.Name(), ".pdf"), "_")
		if len(parts) == 4 && domain.ValidTSCode(parts[1]) {
			pdf.TSCode = parts[1]
		}
		if doc, err := fitz.New(filepath.Join(outDir, entry.Name())); err == nil {
			pdf.PageCount = doc.NumPage()
			doc.Close()
		}
		pdfs = append(pdfs, pdf)
	}

	sort.Slice(pdfs, func(i, j int) bool {
		return pdfs[i].ModifiedAt.After(pdfs[j].ModifiedAt)
	})
	return pdfs, nil
}

// renderHTML converts a markdown report into the printable HTML document.
// The stored report carries its own top heading and disclaimer; both are
// replaced by the styled versions the PDF layout provides.
func (s *ExportServiceImpl) renderHTML(report *domain.Report) (string, error) {
	var kept []string
	for _, line := range strings.Split(report.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") || trimmed == "---" {
			continue
		}
		if strings.Contains(trimmed, "综合分析报告") || strings.Contains(trimmed, "免责声明") {
			continue
		}
		kept = append(kept, line)
	}

	var body bytes.Buffer
	if err := s.markdown.Convert([]byte(strings.Join(kept, "\n")), &body); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	fontDir, err := filepath.Abs(s.cfg.GetFontDir())
	if err != nil {
		fontDir = s.cfg.GetFontDir()
	}
	regularFont := filepath.ToSlash(filepath.Join(fontDir, fontRegularName))
	boldFont := filepath.ToSlash(filepath.Join(fontDir, fontBoldName))

	providerInfo := fmt.Sprintf("%s (%s)", report.Metadata.Provider, report.Metadata.Model)
	generatedAt := report.Metadata.Timestamp.Format("2006-01-02 15:04:05")

	html := fmt.Sprintf(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<style>
@font-face {
  font-family: 'SourceHanSansSC';
  src: url('file:///%s');
  font-weight: normal;
}
@font-face {
  font-family: 'SourceHanSansSC';
  src: url('file:///%s');
  font-weight: bold;
}
body {
  font-family: 'SourceHanSansSC', 'Noto Sans CJK SC', sans-serif;
  font-size: 11pt;
  line-height: 1.7;
  color: #1a1a1a;
}
h1 { font-size: 18pt; text-align: center; margin-bottom: 4px; }
h2 { font-size: 14pt; border-bottom: 1px solid #d0d0d0; padding-bottom: 4px; margin-top: 22px; }
h3 { font-size: 12pt; margin-top: 16px; }
table { border-collapse: collapse; width: 100%%; margin: 12px 0; }
th, td { border: 1px solid #c8c8c8; padding: 5px 8px; font-size: 10pt; }
th { background: #f2f2f2; }
.meta-info { text-align: center; color: #666; font-size: 10pt; margin-bottom: 20px; }
.disclaimer {
  margin-top: 28px;
  padding: 10px 14px;
  background: #fff8e6;
  border: 1px solid #e6c87a;
  font-size: 9pt;
  color: #7a5c00;
}
</style>
</head>
<body>
<h1>%s 股票分析报告</h1>
<div class="meta-info">报告生成时间: %s &nbsp;|&nbsp; 分析模型: %s</div>
%s
<div class="disclaimer">⚠️ 重要声明：本报告由AI模型自动生成，内容仅供参考，不构成任何投资建议。投资有风险，入市需谨慎。</div>
</body>
</html>`,
		regularFont, boldFont,
		report.Metadata.TSCode, generatedAt, providerInfo,
		body.String())

	return html, nil
}
