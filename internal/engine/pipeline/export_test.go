package pipeline

import "time"

// SetLookupEnv replaces the environment lookup used for fingerprints.
func (p *Pipeline) SetLookupEnv(fn func(string) (string, bool)) {
	p.lookupEnv = fn
}

// SetNow replaces the clock used for seals and stamps.
func (p *Pipeline) SetNow(fn func() time.Time) {
	p.now = fn
}
