package framework

// TestLogger receives notifications about the lifecycle of each test.
//
// TestStarted is always followed by exactly one of TestFinished or TestSkipped for the same
// test. Subtests start and finish between their parent's TestStarted and TestFinished.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(result TestResult, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                      {}
func (n nullTestLogger) TestError(TestID, error)                 {}
func (n nullTestLogger) TestFinished(TestResult, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)              {}

// TestLoggers fans out every notification to each of the loggers, in order.
type TestLoggers []TestLogger

func (ls TestLoggers) TestStarted(id TestID) {
	for _, l := range ls {
		l.TestStarted(id)
	}
}

func (ls TestLoggers) TestError(id TestID, err error) {
	for _, l := range ls {
		l.TestError(id, err)
	}
}

func (ls TestLoggers) TestFinished(result TestResult, debugOutput CapturedOutput) {
	for _, l := range ls {
		l.TestFinished(result, debugOutput)
	}
}

func (ls TestLoggers) TestSkipped(id TestID, reason string) {
	for _, l := range ls {
		l.TestSkipped(id, reason)
	}
}
