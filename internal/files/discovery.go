package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindWorkbooks finds all Excel workbooks in the specified directory
func (d *Discovery) FindWorkbooks(dir string) ([]FileInfo, error) {
	files, err := d.findByExtension(dir, ".xlsx", ".xls")
	if err != nil {
		return nil, err
	}

	// Sort by modification time (oldest first)
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// FindSnapshots finds all CSV snapshots in the specified directory
func (d *Discovery) FindSnapshots(dir string) ([]FileInfo, error) {
	return d.findByExtension(dir, ".csv")
}

func (d *Discovery) findByExtension(dir string, exts ...string) ([]FileInfo, error) {
	// If dir is already absolute, use it directly
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		// Excel lock files start with ~$ and are not readable workbooks
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if !hasAnySuffix(strings.ToLower(name), exts) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

func hasAnySuffix(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// LatestWorkbook returns the most recently modified workbook in dir
func (d *Discovery) LatestWorkbook(dir string) (FileInfo, error) {
	files, err := d.FindWorkbooks(dir)
	if err != nil {
		return FileInfo{}, err
	}

	latest, ok := GetLatestFile(files)
	if !ok {
		return FileInfo{}, fmt.Errorf("no workbooks found in %s", dir)
	}
	return latest, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
