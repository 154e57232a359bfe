package report

import (
	"github.com/qportal/e2e-tests/framework"
)

// The Reporter is also a framework.TestLogger, so it can observe a test suite directly. Each
// TestStarted begins a pending test, which the matching TestFinished or TestSkipped ends.

func (r *Reporter) TestStarted(id framework.TestID) {
	p := r.Begin(id.String())
	key := id.String()
	r.lock.Lock()
	r.pending[key] = append(r.pending[key], p)
	r.lock.Unlock()
}

func (r *Reporter) TestError(framework.TestID, error) {}

func (r *Reporter) TestFinished(result framework.TestResult, _ framework.CapturedOutput) {
	if p := r.takePending(result.TestID); p != nil {
		_ = p.End(result.Status(), result.ErrorText())
	}
}

func (r *Reporter) TestSkipped(id framework.TestID, _ string) {
	if p := r.takePending(id); p != nil {
		_ = p.End(framework.StatusSkipped, "")
	}
}

// takePending removes the most recently started test with this ID. A finish notification
// with no matching start has no handle to end, and is dropped.
func (r *Reporter) takePending(id framework.TestID) *Pending {
	key := id.String()
	r.lock.Lock()
	defer r.lock.Unlock()
	stack := r.pending[key]
	if len(stack) == 0 {
		return nil
	}
	p := stack[len(stack)-1]
	if len(stack) == 1 {
		delete(r.pending, key)
	} else {
		r.pending[key] = stack[:len(stack)-1]
	}
	return p
}
