package domain

// Command describes one synchronous subprocess invocation.
type Command struct {
	// Path is the executable, absolute or looked up on PATH.
	Path string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the inherited environment as KEY=VALUE entries.
	Env []string
}

// ProcessResult is what a finished subprocess produced.
type ProcessResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports a zero exit status.
func (r *ProcessResult) Success() bool {
	return r != nil && r.ExitCode == 0
}

// GenerationInvocation is the per-build record of a generator run. It is never persisted.
type GenerationInvocation struct {
	Files  []string
	Result ProcessResult
}
