package profile

// Tag is the build tag that enables profiling.
const Tag = "pprof"

// Stopper ends a profiling session and writes its output.
type Stopper interface{ Stop() }

// Profiler selects a profile and where it is written.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Dir is the output directory. If empty, pkg/profile creates a
	// temporary directory.
	Dir string
	// Quiet suppresses the profiler's own log lines.
	Quiet bool
}

// Start begins profiling. The returned Stopper is never nil.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether profiling was compiled in.
func Enabled() bool { return len(Modes()) > 0 }

type ignore struct{}

func (ignore) Stop() {}
