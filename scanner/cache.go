package scanner

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/zeebo/xxh3"
)

// CacheEntry represents a cached item with metadata
type CacheEntry struct {
	Data      interface{}
	Timestamp time.Time
	FileSize  int64
	ModTime   time.Time
	Hash      string
}

// FileCache manages file-based caching with intelligent invalidation
type FileCache struct {
	cacheDir string
	mutex    sync.RWMutex
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	TotalRequests  int64
	CacheHits      int64
	CacheMisses    int64
	TotalSizeBytes int64
	LastResetTime  time.Time
	mutex          sync.RWMutex
}

// CacheManager provides high-level caching operations
type CacheManager struct {
	fileCache *FileCache
	stats     *CacheStats
}

// NewCacheManager creates a new cache manager instance
// If cacheDir is empty, it defaults to ".avalint/cache" in the current working directory
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	// Register types for gob encoding/decoding
	gob.Register(&models.ParsedUnit{})

	if cacheDir == "" {
		// Get current working directory
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		cacheDir = filepath.Join(cwd, ".avalint", "cache")
	}

	// Ensure cache directory exists
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	fileCache := &FileCache{
		cacheDir: cacheDir,
	}

	cacheManager := &CacheManager{
		fileCache: fileCache,
		stats: &CacheStats{
			LastResetTime: time.Now(),
		},
	}

	// Perform automatic cleanup on initialization (background cleanup)
	go cacheManager.performAutoCleanup()

	return cacheManager, nil
}

// generateCacheKey creates a unique cache key for a file
func (fc *FileCache) generateCacheKey(filePath string) string {
	hash := xxh3.HashString(filePath)
	return fmt.Sprintf("%x.cache", hash)
}

// getCachePath returns the full path to a cache file
func (fc *FileCache) getCachePath(cacheKey string) string {
	return filepath.Join(fc.cacheDir, cacheKey)
}

// isFileChanged checks if a file has been modified since last cache
func (fc *FileCache) isFileChanged(filePath string, entry *CacheEntry) (bool, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return true, err
	}

	// Check modification time and file size
	if !fileInfo.ModTime().Equal(entry.ModTime) || fileInfo.Size() != entry.FileSize {
		return true, nil
	}

	return false, nil
}

// Get retrieves data from cache if valid, returns nil if not found or invalid
func (fc *FileCache) Get(filePath string) (interface{}, bool) {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()

	cacheKey := fc.generateCacheKey(filePath)
	cachePath := fc.getCachePath(cacheKey)

	// Check if cache file exists
	if _, err := os.Stat(cachePath); os.IsNotExist(err) {
		return nil, false
	}

	// Read cache file
	data, err := ioutil.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	var entry CacheEntry
	decoder := gob.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&entry); err != nil {
		return nil, false
	}

	// Check if original file has changed
	changed, err := fc.isFileChanged(filePath, &entry)
	if err != nil || changed {
		// File has changed or error occurred, invalidate cache
		os.Remove(cachePath)
		return nil, false
	}

	return entry.Data, true
}

// Set stores data in cache with file metadata
func (fc *FileCache) Set(filePath string, data interface{}) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	entry := CacheEntry{
		Data:      data,
		Timestamp: time.Now(),
		FileSize:  fileInfo.Size(),
		ModTime:   fileInfo.ModTime(),
		Hash:      fc.generateCacheKey(filePath),
	}

	var buffer bytes.Buffer
	encoder := gob.NewEncoder(&buffer)
	if err := encoder.Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	gobData := buffer.Bytes()

	cacheKey := fc.generateCacheKey(filePath)
	cachePath := fc.getCachePath(cacheKey)

	if err := ioutil.WriteFile(cachePath, gobData, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// GetUnitCache retrieves a cached parsed unit for a file
func (cm *CacheManager) GetUnitCache(filePath string) (*models.ParsedUnit, bool) {
	data, found := cm.fileCache.Get(filePath)
	if !found {
		cm.recordCacheMiss()
		return nil, false
	}

	// Type assertion to convert back to ParsedUnit
	if unit, ok := data.(*models.ParsedUnit); ok {
		cm.recordCacheHit()
		return unit, true
	}

	cm.recordCacheMiss()
	return nil, false
}

// SetUnitCache stores a parsed unit in cache
func (cm *CacheManager) SetUnitCache(filePath string, unit *models.ParsedUnit) error {
	return cm.fileCache.Set(filePath, unit)
}

// GetCacheStats returns cache statistics
func (cm *CacheManager) GetCacheStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	// Count cache files
	files, err := ioutil.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var totalSize int64
	for _, file := range files {
		if !file.IsDir() {
			totalSize += file.Size()
		}
	}

	stats["cache_files"] = len(files)
	stats["total_size"] = totalSize
	stats["cache_dir"] = cm.fileCache.cacheDir

	return stats, nil
}

// GetDetailedCacheStats returns detailed cache statistics including entry counts by type
func (cm *CacheManager) GetDetailedCacheStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	files, err := ioutil.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var totalSize int64
	var csharpCount, markupCount, projectCount int
	oldestTime := time.Now()
	newestTime := time.Time{}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		totalSize += file.Size()
		modTime := file.ModTime()

		if modTime.Before(oldestTime) {
			oldestTime = modTime
		}
		if modTime.After(newestTime) {
			newestTime = modTime
		}

		// Analyze cache entry type by reading the data
		cachePath := filepath.Join(cm.fileCache.cacheDir, file.Name())
		data, err := ioutil.ReadFile(cachePath)
		if err != nil {
			continue
		}

		var entry CacheEntry
		decoder := gob.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(&entry); err != nil {
			continue
		}

		// Classify cache entry by the kind of the cached unit
		if unit, ok := entry.Data.(*models.ParsedUnit); ok {
			switch unit.File.Kind {
			case models.KindCSharp:
				csharpCount++
			case models.KindMarkup:
				markupCount++
			case models.KindProject:
				projectCount++
			}
		}
	}

	stats["cache_files"] = len(files)
	stats["total_size"] = totalSize
	stats["total_size_mb"] = float64(totalSize) / (1024 * 1024)
	stats["cache_dir"] = cm.fileCache.cacheDir
	stats["csharp_entries"] = csharpCount
	stats["markup_entries"] = markupCount
	stats["project_entries"] = projectCount

	if len(files) > 0 {
		stats["oldest_entry"] = oldestTime.Format(time.RFC3339)
		stats["newest_entry"] = newestTime.Format(time.RFC3339)
		stats["age_range_hours"] = newestTime.Sub(oldestTime).Hours()
	}

	return stats, nil
}

// CacheCleanupOptions defines options for cache cleanup
type CacheCleanupOptions struct {
	MaxAge   time.Duration // Remove entries older than this
	MaxSize  int64         // Remove oldest entries if cache exceeds this size (bytes)
	MaxFiles int           // Remove oldest entries if cache exceeds this number of files
	DryRun   bool          // If true, only report what would be cleaned without actual deletion
}

// SmartCleanupCache performs intelligent cache cleanup based on various criteria
func (cm *CacheManager) SmartCleanupCache(options CacheCleanupOptions) (map[string]interface{}, error) {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	files, err := ioutil.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	// Collect file info with metadata
	type fileInfo struct {
		name     string
		path     string
		size     int64
		modTime  time.Time
		entryAge time.Time
	}

	var fileInfos []fileInfo
	var totalSize int64

	cutoffTime := time.Time{}
	if options.MaxAge > 0 {
		cutoffTime = time.Now().Add(-options.MaxAge)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		cachePath := filepath.Join(cm.fileCache.cacheDir, file.Name())

		// Try to read the cache entry to get its timestamp
		entryAge := file.ModTime() // Fallback to file modification time
		if data, err := ioutil.ReadFile(cachePath); err == nil {
			var entry CacheEntry
			if decoder := gob.NewDecoder(bytes.NewReader(data)); decoder.Decode(&entry) == nil {
				entryAge = entry.Timestamp
			}
		}

		fileInfos = append(fileInfos, fileInfo{
			name:     file.Name(),
			path:     cachePath,
			size:     file.Size(),
			modTime:  file.ModTime(),
			entryAge: entryAge,
		})
		totalSize += file.Size()
	}

	// Sort files by entry age (oldest first) for cleanup priority
	sort.Slice(fileInfos, func(i, j int) bool {
		return fileInfos[i].entryAge.Before(fileInfos[j].entryAge)
	})

	var toDelete []fileInfo
	var deletedSize int64
	var deletedByAge, deletedBySize, deletedByCount int

	// Phase 1: Remove by age
	if !cutoffTime.IsZero() {
		for _, f := range fileInfos {
			if f.entryAge.Before(cutoffTime) {
				toDelete = append(toDelete, f)
				deletedSize += f.size
				deletedByAge++
			}
		}
	}

	// Phase 2: Remove by total size (oldest first)
	if options.MaxSize > 0 && totalSize > options.MaxSize {
		remainingFiles := make([]fileInfo, 0)
		for _, f := range fileInfos {
			// Skip files already marked for deletion by age
			alreadyMarked := false
			for _, d := range toDelete {
				if d.path == f.path {
					alreadyMarked = true
					break
				}
			}
			if !alreadyMarked {
				remainingFiles = append(remainingFiles, f)
			}
		}

		currentSize := totalSize - deletedSize
		for _, f := range remainingFiles {
			if currentSize <= options.MaxSize {
				break
			}
			toDelete = append(toDelete, f)
			deletedSize += f.size
			currentSize -= f.size
			deletedBySize++
		}
	}

	// Phase 3: Remove by file count (oldest first)
	if options.MaxFiles > 0 && len(fileInfos) > options.MaxFiles {
		remainingFiles := make([]fileInfo, 0)
		for _, f := range fileInfos {
			// Skip files already marked for deletion
			alreadyMarked := false
			for _, d := range toDelete {
				if d.path == f.path {
					alreadyMarked = true
					break
				}
			}
			if !alreadyMarked {
				remainingFiles = append(remainingFiles, f)
			}
		}

		excessCount := len(remainingFiles) - (options.MaxFiles - len(toDelete))
		for i := 0; i < excessCount && i < len(remainingFiles); i++ {
			f := remainingFiles[i]
			toDelete = append(toDelete, f)
			deletedSize += f.size
			deletedByCount++
		}
	}

	// Execute cleanup (or simulate if dry run)
	actuallyDeleted := 0
	if !options.DryRun {
		for _, f := range toDelete {
			if err := os.Remove(f.path); err == nil {
				actuallyDeleted++
			}
		}
	} else {
		actuallyDeleted = len(toDelete)
	}

	// Return cleanup summary
	result := map[string]interface{}{
		"files_before_cleanup":    len(fileInfos),
		"total_size_before_mb":    float64(totalSize) / (1024 * 1024),
		"files_marked_for_delete": len(toDelete),
		"size_to_delete_mb":       float64(deletedSize) / (1024 * 1024),
		"files_actually_deleted":  actuallyDeleted,
		"deleted_by_age":          deletedByAge,
		"deleted_by_size":         deletedBySize,
		"deleted_by_count":        deletedByCount,
		"files_after_cleanup":     len(fileInfos) - actuallyDeleted,
		"total_size_after_mb":     float64(totalSize-deletedSize) / (1024 * 1024),
		"dry_run":                 options.DryRun,
	}

	return result, nil
}

// performAutoCleanup performs background automatic cleanup with conservative defaults
func (cm *CacheManager) performAutoCleanup() {
	// Conservative cleanup: remove entries older than 7 days or if cache exceeds 100MB
	options := CacheCleanupOptions{
		MaxAge:   7 * 24 * time.Hour, // 7 days
		MaxSize:  100 * 1024 * 1024,  // 100MB
		MaxFiles: 1000,               // Max 1000 files
		DryRun:   false,
	}

	cm.SmartCleanupCache(options)
}

// ClearCache completely removes all cache entries
func (cm *CacheManager) ClearCache() error {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	files, err := ioutil.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		cachePath := filepath.Join(cm.fileCache.cacheDir, file.Name())
		os.Remove(cachePath)
	}

	return nil
}
