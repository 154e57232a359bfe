// Package report collects one record per finished test and writes them all to a JSON file
// at the end of the run.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/qportal/e2e-tests/framework"
)

// DefaultPath is where the report is written unless the results directory is configured.
const DefaultPath = "./test-results/json/report.json"

// ErrAlreadyEnded is returned when a test is ended more than once.
var ErrAlreadyEnded = errors.New("test has already ended")

// Record is the outcome of one test. Error is null in the JSON output unless the test
// reported an error.
type Record struct {
	Title  string                 `json:"title"`
	Status framework.Status       `json:"status"`
	Error  ldvalue.OptionalString `json:"error"`
}

// Reporter accumulates records in the order that tests end. It is safe for concurrent use,
// but records reflect the order in which End calls were made.
type Reporter struct {
	outputPath string
	records    []Record
	pending    map[string][]*Pending
	lock       sync.Mutex
}

// Pending is the handle for a test that has begun but not ended.
type Pending struct {
	reporter *Reporter
	title    string
	ended    bool
}

// NewReporter creates a Reporter that writes to outputPath, or DefaultPath if it is empty.
func NewReporter(outputPath string) *Reporter {
	if outputPath == "" {
		outputPath = DefaultPath
	}
	return &Reporter{
		outputPath: outputPath,
		pending:    make(map[string][]*Pending),
	}
}

func (r *Reporter) OutputPath() string {
	return r.outputPath
}

// Begin starts a test. The returned handle is the only way to record its outcome.
func (r *Reporter) Begin(title string) *Pending {
	return &Pending{reporter: r, title: title}
}

func (p *Pending) Title() string {
	return p.title
}

// End appends the test's record. errText is recorded as null if it is empty. Ending the same
// test twice is a mistake in the caller and returns ErrAlreadyEnded without recording anything.
func (p *Pending) End(status framework.Status, errText string) error {
	r := p.reporter
	r.lock.Lock()
	defer r.lock.Unlock()
	if p.ended {
		return fmt.Errorf("%w: %q", ErrAlreadyEnded, p.title)
	}
	p.ended = true
	record := Record{Title: p.title, Status: status}
	if errText != "" {
		record.Error = ldvalue.NewOptionalString(errText)
	}
	r.records = append(r.records, record)
	return nil
}

// Records returns a copy of the records collected so far.
func (r *Reporter) Records() []Record {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Record(nil), r.records...)
}

// Reset discards all records and pending tests so that the Reporter can be reused for a new
// logical run. Without it, records accumulate for the lifetime of the Reporter.
func (r *Reporter) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.records = nil
	r.pending = make(map[string][]*Pending)
}

// WriteReport writes every record collected so far as a JSON array, replacing the file if it
// exists. The data is written to a temporary file that is then renamed, so readers never see
// a partial report. Calling it again without new records produces an identical file.
func (r *Reporter) WriteReport() (string, error) {
	records := r.Records()
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create report directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return "", fmt.Errorf("cannot create report file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("cannot write report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cannot write report file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.outputPath); err != nil {
		return "", fmt.Errorf("cannot replace report file: %w", err)
	}
	return r.outputPath, nil
}
