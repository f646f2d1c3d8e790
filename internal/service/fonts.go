package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"stock-analyst-agent/internal/domain"
)

const (
	fontRegularName = "SourceHanSansSC-Regular.otf"
	fontBoldName    = "SourceHanSansSC-Bold.otf"
	fontBaseURL     = "https://github.com/adobe-fonts/source-han-sans/raw/release/OTF/SimplifiedChinese/"
)

var fontDownloadClient = &http.Client{Timeout: 5 * time.Minute}

// ensureFonts downloads the Source Han Sans SC fonts on first use so the
// PDF output renders Chinese text.
func ensureFonts(ctx context.Context, fontDir string, logger domain.Logger) error {
	if err := os.MkdirAll(fontDir, 0o755); err != nil {
		return fmt.Errorf("failed to create font directory: %w", err)
	}
	for _, name := range []string{fontRegularName, fontBoldName} {
		path := filepath.Join(fontDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		logger.Info("Downloading font", "font", name)
		if err := downloadFont(ctx, fontBaseURL+name, path); err != nil {
			return fmt.Errorf("failed to download font %s: %w", name, err)
		}
	}
	return nil
}

func downloadFont(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := fontDownloadClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		// Do not leave a truncated font behind.
		os.Remove(path)
		return err
	}
	return f.Close()
}
