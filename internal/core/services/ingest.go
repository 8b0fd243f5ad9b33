package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Ensure FileIngestor implements the interface.
var _ driving.FileIngestor = (*FileIngestor)(nil)

// DefaultDropCooldown is the minimum spacing between two accepted drops.
const DefaultDropCooldown = 500 * time.Millisecond

// Texts raised while ingesting.
const (
	msgMultipleFiles   = "Multiple files detected. Processing only the first PDF file."
	msgUnsupportedFile = "Unsupported file format. Please drop a PDF file."
	msgLoadingFile     = "Loading PDF file..."
)

// FileIngestor validates user-supplied files and produces documents.
// Drops are serialised by an in-flight flag plus a cooldown limiter, so a
// rapid double drop is ingested once.
type FileIngestor struct {
	notifier driven.Notifier
	maxSize  func() int64
	readFile func(name string) ([]byte, error)
	statFile func(name string) (os.FileInfo, error)

	inFlight atomic.Bool
	cooldown *rate.Limiter
}

// NewFileIngestor creates an ingestor. maxSize returns the size limit in bytes
// (zero disables it) and is read on every call so preference changes apply.
func NewFileIngestor(notifier driven.Notifier, maxSize func() int64, cooldown time.Duration) *FileIngestor {
	if maxSize == nil {
		maxSize = func() int64 { return 0 }
	}
	if cooldown <= 0 {
		cooldown = DefaultDropCooldown
	}
	return &FileIngestor{
		notifier: notifier,
		maxSize:  maxSize,
		readFile: os.ReadFile,
		statFile: os.Stat,
		cooldown: rate.NewLimiter(rate.Every(cooldown), 1),
	}
}

// FromPath reads a PDF from disk.
func (f *FileIngestor) FromPath(_ context.Context, path string) (*domain.Document, error) {
	if !domain.IsPDF(path, "") {
		return nil, &domain.ValidationError{Reason: msgUnsupportedFile, Err: domain.ErrUnsupportedFile}
	}

	info, err := f.statFile(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := f.checkSize(info.Size()); err != nil {
		return nil, err
	}

	content, err := f.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return domain.NewDocument(filepath.Base(path), content, domain.MimePDF, info.ModTime()), nil
}

// FromBytes wraps an uploaded payload.
func (f *FileIngestor) FromBytes(name string, content []byte, mimeType string) (*domain.Document, error) {
	if name == "" {
		name = "document.pdf"
	}
	if !domain.IsPDF(name, mimeType) {
		return nil, &domain.ValidationError{Reason: msgUnsupportedFile, Err: domain.ErrUnsupportedFile}
	}
	if err := f.checkSize(int64(len(content))); err != nil {
		return nil, err
	}
	return domain.NewDocument(filepath.Base(name), content, domain.MimePDF, time.Now()), nil
}

// HandleDrop ingests the first path of a drop event. An empty drop is ignored.
func (f *FileIngestor) HandleDrop(ctx context.Context, paths []string) (*domain.Document, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		logger.Debug("drop: ignoring %d path(s), another drop is in flight", len(paths))
		return nil, domain.ErrDropInProgress
	}
	defer f.inFlight.Store(false)

	if !f.cooldown.Allow() {
		logger.Debug("drop: ignoring %d path(s) inside cooldown window", len(paths))
		return nil, domain.ErrDropInProgress
	}

	if len(paths) > 1 {
		f.notify(domain.LevelInfo, msgMultipleFiles)
	}

	path := paths[0]
	if !domain.IsPDF(path, "") {
		f.notify(domain.LevelError, msgUnsupportedFile)
		return nil, &domain.ValidationError{Reason: msgUnsupportedFile, Err: domain.ErrUnsupportedFile}
	}

	f.notify(domain.LevelInfo, msgLoadingFile)
	doc, err := f.FromPath(ctx, path)
	if err != nil {
		f.notify(domain.LevelError, fmt.Sprintf("Failed to load PDF file: %s", domain.UserMessage(err)))
		return nil, err
	}
	return doc, nil
}

func (f *FileIngestor) checkSize(size int64) error {
	limit := f.maxSize()
	if limit > 0 && size > limit {
		return &domain.ValidationError{
			Reason: fmt.Sprintf("File is too large (%d MB limit)", limit>>20),
			Err:    domain.ErrFileTooLarge,
		}
	}
	return nil
}

func (f *FileIngestor) notify(level domain.NotificationLevel, message string) {
	if f.notifier != nil {
		f.notifier.Notify(level, message)
	}
}
