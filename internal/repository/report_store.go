package repository

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"stock-analyst-agent/internal/domain"
)

// Report files are CSVs named {ts_code}_{YYYYMMDD}_{HHMMSS}.csv with a
// UTF-8 BOM so spreadsheet tools open the Chinese content correctly.
var reportHeader = []string{
	"timestamp", "ts_code", "llm_provider", "llm_model",
	"analysis_content", "file_date", "file_time",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileReportStore implements domain.ReportStore on the local filesystem.
type FileReportStore struct {
	dir    string
	logger domain.Logger
}

// NewFileReportStore creates a report store rooted at dir.
func NewFileReportStore(dir string, logger domain.Logger) *FileReportStore {
	return &FileReportStore{
		dir:    dir,
		logger: logger,
	}
}

func (s *FileReportStore) ensureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Save implements domain.ReportStore.
func (s *FileReportStore) Save(tsCode, content, provider, model string) (*domain.ReportMetadata, string, error) {
	if err := s.ensureDir(); err != nil {
		return nil, "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	now := time.Now()
	dateStr := now.Format("20060102")
	timeStr := now.Format("150405")
	filename := fmt.Sprintf("%s_%s_%s.csv", tsCode, dateStr, timeStr)
	path := filepath.Join(s.dir, filename)

	meta := &domain.ReportMetadata{
		Timestamp: now,
		TSCode:    tsCode,
		Provider:  provider,
		Model:     model,
		FileDate:  dateStr,
		FileTime:  timeStr,
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, "", err
	}
	record := []string{
		now.Format(time.RFC3339), tsCode, provider, model,
		content, dateStr, timeStr,
	}
	if err := w.Write(record); err != nil {
		return nil, "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, "", fmt.Errorf("failed to write report cache: %w", err)
	}

	s.logger.Info("Analysis report cached", "path", path)
	return meta, strings.TrimSuffix(filename, ".csv"), nil
}

// List implements domain.ReportStore.
func (s *FileReportStore) List(tsCode string) ([]*domain.ReportFile, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var files []*domain.ReportFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		fileTS, fileDate, fileTime, ok := parseReportName(entry.Name())
		if !ok {
			s.logger.Debug("Skipping cache file with unexpected name", "file", entry.Name())
			continue
		}
		if tsCode != "" && fileTS != tsCode {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		providerInfo := "未知"
		if report, err := s.Load(strings.TrimSuffix(entry.Name(), ".csv")); err == nil && report.Metadata.Provider != "" {
			providerInfo = fmt.Sprintf("%s (%s)", report.Metadata.Provider, report.Metadata.Model)
		}

		files = append(files, &domain.ReportFile{
			ID:           strings.TrimSuffix(entry.Name(), ".csv"),
			Filename:     entry.Name(),
			TSCode:       fileTS,
			Date:         fileDate,
			Time:         fileTime,
			ProviderInfo: providerInfo,
			Size:         info.Size(),
			ModifiedAt:   info.ModTime(),
			DisplayName: fmt.Sprintf("%s - %s %s:%s (%s)",
				fileTS, fileDate, fileTime[:2], fileTime[2:4], providerInfo),
		})
	}

	// Newest first.
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})

	return files, nil
}

// Load implements domain.ReportStore.
func (s *FileReportStore) Load(id string) (*domain.Report, error) {
	path, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	r := csv.NewReader(bytes.NewReader(raw))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("cache file has no report record")
	}

	cols := make(map[string]string, len(rows[0]))
	for i, name := range rows[0] {
		if i < len(rows[1]) {
			cols[name] = rows[1][i]
		}
	}
	if _, ok := cols["analysis_content"]; !ok {
		return nil, fmt.Errorf("cache file missing analysis content")
	}

	ts, _ := time.Parse(time.RFC3339, cols["timestamp"])
	return &domain.Report{
		ID:      id,
		Content: cols["analysis_content"],
		Metadata: &domain.ReportMetadata{
			Timestamp: ts,
			TSCode:    cols["ts_code"],
			Provider:  cols["llm_provider"],
			Model:     cols["llm_model"],
			FileDate:  cols["file_date"],
			FileTime:  cols["file_time"],
		},
	}, nil
}

// Delete implements domain.ReportStore.
func (s *FileReportStore) Delete(id string) error {
	path, err := s.resolve(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrReportNotFound
		}
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// DeleteAll implements domain.ReportStore.
func (s *FileReportStore) DeleteAll() (int, error) {
	files, err := s.List("")
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		if err := os.Remove(filepath.Join(s.dir, f.Filename)); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", f.Filename, err)
		}
		removed++
	}
	return removed, nil
}

// Latest implements domain.ReportStore.
func (s *FileReportStore) Latest(tsCode string) (*domain.ReportFile, error) {
	files, err := s.List(tsCode)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return files[0], nil
}

// resolve maps a report ID to a file path, rejecting anything that is not
// a well-formed report name so IDs cannot escape the cache directory.
func (s *FileReportStore) resolve(id string) (string, error) {
	if _, _, _, ok := parseReportName(id + ".csv"); !ok {
		return "", domain.ErrReportNotFound
	}
	return filepath.Join(s.dir, id+".csv"), nil
}

// parseReportName splits {ts_code}_{YYYYMMDD}_{HHMMSS}.csv.
func parseReportName(name string) (tsCode, date, timeStr string, ok bool) {
	base := strings.TrimSuffix(name, ".csv")
	if base == name {
		return "", "", "", false
	}
	parts := strings.Split(base, "_")
	if len(parts) != 3 {
		return "", "", "", false
	}
	tsCode, date, timeStr = parts[0], parts[1], parts[2]
	if !domain.ValidTSCode(tsCode) || len(date) != 8 || len(timeStr) != 6 {
		return "", "", "", false
	}
	return tsCode, date, timeStr, true
}
