package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// InputExtensions lists the table formats the loader reads, in lookup order
var InputExtensions = []string{".csv", ".csv.sz", ".xlsx"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) fullPath(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// tableStem strips any supported input extension from name
func tableStem(name string) string {
	lower := strings.ToLower(name)
	// longest first so .csv.sz is not mistaken for .sz
	for _, ext := range []string{".csv.sz", ".xlsx", ".csv"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// ResolveTable returns the path of the table named name inside dir. When the
// exact file is missing, the same stem is tried with every supported
// extension, so transactions.csv is also found as transactions.xlsx.
func (d *Discovery) ResolveTable(dir, name string) (string, error) {
	base := d.fullPath(dir)
	exact := filepath.Join(base, name)
	if filepath.IsAbs(name) {
		exact = name
	}
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return exact, nil
	}

	stem := tableStem(exact)
	for _, ext := range InputExtensions {
		candidate := stem + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("table %s not found in %s", name, base)
}

// FindTables finds all readable table files in the specified directory,
// sorted by name
func (d *Discovery) FindTables(dir string) ([]FileInfo, error) {
	fullPath := d.fullPath(dir)

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
		if strings.HasPrefix(name, "~$") || tableStem(name) == name {
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

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// ListDirectories lists all subdirectories in the specified directory
func (d *Discovery) ListDirectories(dir string) ([]FileInfo, error) {
	fullPath := d.fullPath(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var dirs []FileInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dirs = append(dirs, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			ModTime: info.ModTime(),
			IsDir:   true,
		})
	}
	return dirs, nil
}

// FindModelGroups lists the product group directories under dir that hold a
// hyperparameters file
func (d *Discovery) FindModelGroups(dir string) ([]FileInfo, error) {
	dirs, err := d.ListDirectories(dir)
	if err != nil {
		return nil, err
	}

	var groups []FileInfo
	for _, g := range dirs {
		if _, err := os.Stat(filepath.Join(g.Path, HyperparametersFile)); err == nil {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups, nil
}
