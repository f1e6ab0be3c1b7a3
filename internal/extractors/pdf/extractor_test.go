package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	pages map[string]string // "-f" page number -> text
	err   error
	calls int
}

func (m *mockRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for i, arg := range args {
		if arg == "-f" && i+1 < len(args) {
			return []byte(m.pages[args[i+1]]), nil
		}
	}
	return nil, errors.New("no page flag in args")
}

func writeTestPDFs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4 stub"), 0o600))
	}
	return dir
}

func newTestExtractor(dir string, runner CommandRunner, pages int) *Extractor {
	e := New(dir)
	e.runner = runner
	e.pageCount = func(string) (int, error) { return pages, nil }
	return e
}

func collect(t *testing.T, ctx context.Context, extractor *Extractor) ([]domain.DocumentUnit, []error) {
	t.Helper()

	unitCh, errCh := extractor.Extract(ctx)

	var errs []error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for err := range errCh {
			errs = append(errs, err)
		}
	}()

	var units []domain.DocumentUnit
	for unit := range unitCh {
		units = append(units, unit)
	}
	<-done

	return units, errs
}

func TestNew(t *testing.T) {
	extractor := New("/tmp/pdfs")
	require.NotNil(t, extractor)
	assert.Equal(t, domain.OriginPDF, extractor.Origin())
}

func TestValidate(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		extractor := New(t.TempDir())
		assert.NoError(t, extractor.Validate(context.Background()))
	})

	t.Run("missing directory", func(t *testing.T) {
		extractor := New(filepath.Join(t.TempDir(), "nope"))
		err := extractor.Validate(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("not a directory", func(t *testing.T) {
		dir := writeTestPDFs(t, "COA.pdf")
		extractor := New(filepath.Join(dir, "COA.pdf"))
		err := extractor.Validate(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestExtract(t *testing.T) {
	dir := writeTestPDFs(t, "COA.pdf")
	runner := &mockRunner{pages: map[string]string{
		"1": "Total cost of attendance for the first year is $92,000 including tuition and fees.",
		"2": "Health insurance and transportation allowances are included in the student budget.",
	}}
	extractor := newTestExtractor(dir, runner, 2)

	units, errs := collect(t, context.Background(), extractor)
	assert.Empty(t, errs)
	require.Len(t, units, 2)

	assert.Equal(t, filepath.Join(dir, "COA.pdf")+"#page=1", units[0].Source)
	assert.Equal(t, filepath.Join(dir, "COA.pdf")+"#page=2", units[1].Source)
	for i, unit := range units {
		assert.Equal(t, domain.OriginPDF, unit.Origin)
		assert.Equal(t, "Financial: Cost of Attendance", unit.Heading)
		assert.Equal(t, i, unit.Position)
	}
	assert.Contains(t, units[0].Text, "$92,000")
	assert.Equal(t, 2, runner.calls)
}

func TestExtract_SkipsNonPDFs(t *testing.T) {
	dir := writeTestPDFs(t, "Budget.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a pdf"), 0o600))

	runner := &mockRunner{pages: map[string]string{
		"1": "The estimated monthly budget for students covers rent, food and supplies.",
	}}
	extractor := newTestExtractor(dir, runner, 1)

	units, errs := collect(t, context.Background(), extractor)
	assert.Empty(t, errs)
	require.Len(t, units, 1)
	assert.Equal(t, "Financial: Budget", units[0].Heading)
}

func TestExtract_FileFailureContinues(t *testing.T) {
	dir := writeTestPDFs(t, "Aid.pdf", "Requirements.pdf")

	extractor := New(dir)
	extractor.runner = &mockRunner{pages: map[string]string{
		"1": "Applicants must complete all prerequisite coursework before matriculation.",
	}}
	extractor.pageCount = func(path string) (int, error) {
		if strings.Contains(path, "Aid.pdf") {
			return 0, errors.New("corrupt xref table")
		}
		return 1, nil
	}

	units, errs := collect(t, context.Background(), extractor)
	require.Len(t, units, 1)
	assert.Equal(t, "Admissions: Requirements", units[0].Heading)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Aid.pdf")
}

func TestExtract_RunnerErrorSkipsPage(t *testing.T) {
	dir := writeTestPDFs(t, "Timeline.pdf")
	extractor := newTestExtractor(dir, &mockRunner{err: errors.New("pdftotext: not found")}, 3)

	units, errs := collect(t, context.Background(), extractor)
	assert.Empty(t, units)
	assert.Empty(t, errs, "page failures are logged, not fatal")
}

func TestExtract_CancelledContext(t *testing.T) {
	dir := writeTestPDFs(t, "COA.pdf")
	extractor := newTestExtractor(dir, &mockRunner{pages: map[string]string{"1": "text"}}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	units, errs := collect(t, ctx, extractor)
	assert.Empty(t, units)
	assert.Empty(t, errs)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"COA.pdf", "Financial: Cost of Attendance"},
		{"Cost_of_Attendance_2025.pdf", "Financial: Cost of Attendance"},
		{"Merit_Scholarships.pdf", "Financial: Scholarships"},
		{"Student_Budget.pdf", "Financial: Budget"},
		{"FAFSA_Guide.pdf", "Financial: Aid"},
		{"Admission_Requirements.pdf", "Admissions: Requirements"},
		{"Interview_Policies.pdf", "Admissions: Policies"},
		{"MD_Program_Overview.pdf", "Admissions: Program"},
		{"Application_Timeline.pdf", "Admissions: Timeline"},
		{"random_notes.pdf", "Document"},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.expected, classify(tc.filename))
		})
	}
}

func TestChunkWords(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := chunkWords("the cost of attendance", 10, 2)
		require.Len(t, chunks, 1)
		assert.Equal(t, "the cost of attendance", chunks[0])
	})

	t.Run("long text overlaps", func(t *testing.T) {
		var words []string
		for i := 0; i < 8; i++ {
			words = append(words, fmt.Sprintf("w%d", i))
		}
		chunks := chunkWords(strings.Join(words, " "), 5, 2)
		require.Len(t, chunks, 2)
		assert.Equal(t, "w0 w1 w2 w3 w4", chunks[0])
		assert.Equal(t, "w3 w4 w5 w6 w7", chunks[1])
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Nil(t, chunkWords("   ", 10, 2))
	})
}

func TestIsRelevantEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    fsnotify.Event
		relevant bool
	}{
		{"pdf created", fsnotify.Event{Name: "drop/COA.pdf", Op: fsnotify.Create}, true},
		{"pdf written", fsnotify.Event{Name: "drop/COA.pdf", Op: fsnotify.Write}, true},
		{"pdf renamed", fsnotify.Event{Name: "drop/COA.pdf", Op: fsnotify.Rename}, true},
		{"pdf removed", fsnotify.Event{Name: "drop/COA.pdf", Op: fsnotify.Remove}, false},
		{"pdf chmod", fsnotify.Event{Name: "drop/COA.pdf", Op: fsnotify.Chmod}, false},
		{"uppercase extension", fsnotify.Event{Name: "drop/COA.PDF", Op: fsnotify.Write}, true},
		{"non-pdf file", fsnotify.Event{Name: "drop/notes.txt", Op: fsnotify.Create}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.relevant, isRelevantEvent(tc.event))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}
