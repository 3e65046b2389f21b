package progrock

import (
	"io"
	"sync"

	"github.com/muesli/termenv"
	"github.com/vito/progrock"
	"go.trai.ch/typesync/internal/ui/output"
	"go.trai.ch/typesync/internal/ui/style"
)

var _ progrock.Writer = (*Reporter)(nil)

// Reporter is a progrock.Writer that prints one line per stage when the
// stage finishes. Internal vertices and vertex logs are not printed.
type Reporter struct {
	mu   sync.Mutex
	out  *termenv.Output
	done map[string]bool
}

// NewReporter creates a Reporter writing to w, or stderr when w is nil.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		out:  output.New(w),
		done: make(map[string]bool),
	}
}

// WriteStatus prints every vertex in update that completed since the last call.
func (r *Reporter) WriteStatus(update *progrock.StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range update.Vertexes {
		if v.Internal || v.Completed == nil || r.done[v.Id] {
			continue
		}
		r.done[v.Id] = true

		if _, err := r.out.WriteString(r.line(v) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) line(v *progrock.Vertex) string {
	switch {
	case v.Error != nil:
		return r.out.String(style.Cross).Foreground(termenv.RGBColor(string(style.Red))).String() + " " + v.Name
	case v.Cached:
		return r.out.String(style.Tilde).Foreground(termenv.RGBColor(string(style.Slate))).String() + " " + v.Name + " (cached)"
	default:
		return r.out.String(style.Check).Foreground(termenv.RGBColor(string(style.Green))).String() + " " + v.Name
	}
}

// Close does nothing; every line is written as soon as its stage finishes.
func (r *Reporter) Close() error {
	return nil
}
