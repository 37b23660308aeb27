package cli

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/gobeaver/magickit/scheduler"
)

// progressBar renders scheduler stats. The total is only known once files
// have been collected, so it is taken from each update.
type progressBar struct {
	p      *mpb.Progress
	bar    *mpb.Bar
	eta    atomic.Int64
	active atomic.Int64
}

func newProgressBar(w io.Writer, name string) *progressBar {
	pb := &progressBar{
		p: mpb.New(mpb.WithOutput(w), mpb.WithWidth(64), mpb.WithRefreshRate(100*time.Millisecond)),
	}

	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")
	pb.bar = pb.p.New(0,
		barStyle,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(
				decor.Any(func(decor.Statistics) string {
					return fmt.Sprintf("%d active, ETA %s", pb.active.Load(), time.Duration(pb.eta.Load()).Round(time.Second))
				}, decor.WC{W: 4}), "done",
			),
		),
	)
	return pb
}

// Update moves the bar to the settled count in s.
func (pb *progressBar) Update(s scheduler.Stats) {
	pb.eta.Store(int64(s.ETA()))
	pb.active.Store(int64(s.Active))
	pb.bar.SetTotal(int64(s.Total), false)
	pb.bar.SetCurrent(int64(s.Completed))
}

// Finish completes the bar and waits for the final render. It is a no-op on
// a nil bar.
func (pb *progressBar) Finish() {
	if pb == nil {
		return
	}
	pb.bar.SetTotal(-1, true)
	pb.p.Wait()
}
