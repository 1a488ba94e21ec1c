package registry

import (
	"io"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type progress struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

// newProgress renders a single byte-counting bar to w. A nil w discards all rendering.
func newProgress(w io.Writer, label string) *progress {
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(60))
	bar := p.New(0,
		mpb.BarStyle().Rbound("|"),
		mpb.PrependDecorators(
			decor.Name(label+" "),
			decor.Counters(decor.SizeB1024(0), "% .2f / % .2f"),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncSpace),
		),
	)
	return &progress{p: p, bar: bar}
}

// consume drains updates until the channel is closed, then finishes the bar.
func (pr *progress) consume(updates <-chan v1.Update) {
	failed := false
	for u := range updates {
		if u.Error != nil {
			failed = true
			continue
		}
		pr.bar.SetTotal(u.Total, false)
		pr.bar.SetCurrent(u.Complete)
	}
	if failed {
		pr.bar.Abort(false)
	} else {
		pr.bar.SetTotal(-1, true)
	}
	pr.p.Wait()
}
