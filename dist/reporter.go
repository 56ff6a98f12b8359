package dist

import "github.com/cpmech/gosl/io"

// Reporter is the injected diagnostic sink: routing construction/
// runtime problems through an interface instead of a bare os.Stderr
// write keeps the core testable (a test can swap in a Reporter that
// records messages instead of printing them).
type Reporter interface {
	Report(format string, args ...interface{})
}

// StderrReporter is the default Reporter, printing in the same colored
// style gofem's own CLI messages use.
type StderrReporter struct{}

func (StderrReporter) Report(format string, args ...interface{}) {
	io.PfRed("dist: "+format, args...)
}

// NopReporter discards every message; useful where the caller wants
// the report-and-continue error behavior without any console noise.
type NopReporter struct{}

func (NopReporter) Report(format string, args ...interface{}) {}
