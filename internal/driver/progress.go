package driver

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"mad-ising/internal/core"
)

const progressLabel = "2D Ising simulation"

// Reporter renders run progress. On a terminal it redraws a single bar line;
// elsewhere it logs a throttled progress record instead.
type Reporter struct {
	w        io.Writer
	log      *slog.Logger
	tty      bool
	width    int
	throttle *core.Throttle
	drawn    bool
}

// NewReporter inspects w and picks the bar or the log form. A nil logger
// silences the log form.
func NewReporter(w io.Writer, logger *slog.Logger) *Reporter {
	r := &Reporter{
		w:        w,
		log:      logger,
		width:    30,
		throttle: core.NewThrottle(2 * time.Second),
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.tty = true
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			r.width = barWidth(cols)
		}
	}
	return r
}

// SetInterval changes how often the log form emits a record.
func (r *Reporter) SetInterval(d time.Duration) { r.throttle.SetInterval(d) }

// Update reports done of total macrosteps.
func (r *Reporter) Update(done, total int) {
	if r.tty {
		fmt.Fprintf(r.w, "\r%s", Bar(progressLabel, done, total, r.width))
		r.drawn = true
		return
	}
	if r.log == nil {
		return
	}
	if r.throttle.Ready() || done == total {
		r.log.Info("progress", "step", done, "total", total)
	}
}

// Done terminates the bar line.
func (r *Reporter) Done() {
	if r.tty && r.drawn {
		fmt.Fprintln(r.w)
	}
}

// Bar formats a fixed-width progress bar.
func Bar(label string, done, total, width int) string {
	if width < 1 {
		width = 1
	}
	frac := 1.0
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return fmt.Sprintf("%s [%s%s] %3d%% %d/%d",
		label, strings.Repeat("#", filled), strings.Repeat(".", width-filled),
		int(frac*100), done, total)
}

func barWidth(cols int) int {
	w := cols - len(progressLabel) - 24
	if w < 10 {
		return 10
	}
	if w > 60 {
		return 60
	}
	return w
}
