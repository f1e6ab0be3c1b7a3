package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/admitscan-cli/internal/logger"
	"github.com/custodia-labs/admitscan-cli/internal/textclean"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const (
	// chunkSizeWords is the word-window size for long pages.
	chunkSizeWords = 512
	// chunkOverlapWords is the window overlap, so sentences spanning a
	// boundary appear whole in at least one chunk.
	chunkOverlapWords = 50
	// watchDebounce coalesces the event bursts editors and downloads
	// produce for a single file.
	watchDebounce = 500 * time.Millisecond
)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// docTypePatterns classify a PDF by filename, mirroring how admissions
// offices actually name their documents.
var docTypePatterns = []struct {
	heading string
	pattern *regexp.Regexp
}{
	{"Financial: Cost of Attendance", regexp.MustCompile(`(?i)COA\.pdf$|Cost.+Attendance`)},
	{"Financial: Scholarships", regexp.MustCompile(`(?i)Scholar|Award`)},
	{"Financial: Budget", regexp.MustCompile(`(?i)Budget`)},
	{"Financial: Aid", regexp.MustCompile(`(?i)Aid|FAFSA`)},
	{"Admissions: Requirements", regexp.MustCompile(`(?i)Requirements|Prerequisites`)},
	{"Admissions: Policies", regexp.MustCompile(`(?i)Policies|Procedures`)},
	{"Admissions: Program", regexp.MustCompile(`(?i)Program|Curriculum`)},
	{"Admissions: Timeline", regexp.MustCompile(`(?i)Timeline|Schedule`)},
}

// Extractor processes a directory of PDF files into document units.
// Text extraction shells out to pdftotext; page counts and structural
// validation come from pdfcpu.
type Extractor struct {
	dir       string
	runner    CommandRunner
	pageCount func(path string) (int, error)
}

// New creates a PDF extractor for the given directory.
func New(dir string) *Extractor {
	return &Extractor{
		dir:       dir,
		runner:    execRunner{},
		pageCount: api.PageCountFile,
	}
}

// Origin returns the origin kind this extractor produces.
func (e *Extractor) Origin() domain.OriginKind {
	return domain.OriginPDF
}

// Validate checks the input directory exists and is readable.
func (e *Extractor) Validate(_ context.Context) error {
	info, err := os.Stat(e.dir)
	if err != nil {
		return fmt.Errorf("%w: PDF directory %q: %v", domain.ErrInvalidInput, e.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", domain.ErrInvalidInput, e.dir)
	}
	return nil
}

// Close releases resources.
func (e *Extractor) Close() error {
	return nil
}

// Extract processes every PDF in the directory and streams document units.
// Per-file failures are reported on the error channel without stopping
// the run; both channels are closed when all files are processed.
func (e *Extractor) Extract(ctx context.Context) (<-chan domain.DocumentUnit, <-chan error) {
	units := make(chan domain.DocumentUnit)
	errs := make(chan error, 1)

	go func() {
		defer close(units)
		defer close(errs)

		files, err := e.listPDFs()
		if err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
			return
		}

		position := 0
		for _, path := range files {
			if ctx.Err() != nil {
				return
			}
			if err := e.processFile(ctx, path, &position, units); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("process %s: %v", path, err)
				select {
				case errs <- fmt.Errorf("process %s: %w", path, err):
				default:
					// Error buffer full, the failure is already logged.
				}
			}
		}

		logger.Debug("pdf extract complete: %d files, %d units", len(files), position)
	}()

	return units, errs
}

// Watch blocks until ctx is cancelled, invoking onChange whenever a PDF
// in the directory is added, rewritten or renamed. Event bursts are
// debounced so a single download triggers one callback.
func (e *Extractor) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(e.dir); err != nil {
		return fmt.Errorf("watch %s: %w", e.dir, err)
	}

	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(event) {
				continue
			}
			logger.Debug("pdf change detected: %s", event)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// isRelevantEvent reports whether a filesystem event should trigger
// re-extraction.
func isRelevantEvent(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
		return false
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename)
}

// listPDFs returns the PDF files in the directory, sorted by name so
// positions are deterministic across runs.
func (e *Extractor) listPDFs() ([]string, error) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return nil, fmt.Errorf("read PDF directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			files = append(files, filepath.Join(e.dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// processFile extracts one PDF page by page, emitting units on the channel.
func (e *Extractor) processFile(ctx context.Context, path string, position *int, units chan<- domain.DocumentUnit) error {
	pages, err := e.pageCount(path)
	if err != nil {
		return fmt.Errorf("page count: %w", err)
	}

	heading := classify(filepath.Base(path))
	logger.Debug("processing %s: %d pages (%s)", path, pages, heading)

	for page := 1; page <= pages; page++ {
		text, err := e.extractPage(ctx, path, page)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			logger.Warn("extract page %d of %s: %v", page, path, err)
			continue
		}

		source := fmt.Sprintf("%s#page=%d", path, page)
		for _, chunk := range chunkWords(text, chunkSizeWords, chunkOverlapWords) {
			cleaned := textclean.Clean(chunk)
			if cleaned == "" || textclean.IsBoilerplate(cleaned) {
				continue
			}
			unit := domain.DocumentUnit{
				Source:   source,
				Origin:   domain.OriginPDF,
				Heading:  heading,
				Text:     cleaned,
				Position: *position,
			}
			*position++
			select {
			case units <- unit:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return nil
}

// extractPage shells out to pdftotext for a single page.
func (e *Extractor) extractPage(ctx context.Context, path string, page int) (string, error) {
	out, err := e.runner.Run(ctx, "pdftotext",
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-layout", "-enc", "UTF-8",
		path, "-")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// classify derives a heading from the filename naming conventions used
// for admissions documents. Unrecognised names get a generic heading.
func classify(filename string) string {
	for _, dt := range docTypePatterns {
		if dt.pattern.MatchString(filename) {
			return dt.heading
		}
	}
	return "Document"
}

// chunkWords splits text into overlapping word windows, matching the
// sizing used for page text that exceeds a single window.
func chunkWords(text string, size, overlap int) []string {
	if size <= 0 || overlap < 0 || overlap >= size {
		size = chunkSizeWords
		overlap = chunkOverlapWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= size {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	for i := 0; i < len(words); i += size - overlap {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// InstallInstructions explains how to install the pdftotext dependency.
func InstallInstructions() string {
	return strings.Join([]string{
		"pdftotext is required for PDF text extraction.",
		"  macOS:  brew install poppler",
		"  Debian: apt install poppler-utils",
		"  Fedora: dnf install poppler-utils",
	}, "\n")
}
