package app

import (
	"time"

	"github.com/dshills/chime/internal/notify"
	"github.com/dshills/chime/internal/notify/spin"
	"github.com/dshills/chime/internal/renderer/highlight"
)

// demo feeds a staged notification sequence through the pipeline so
// the binary has something to show without an embedding editor. It
// exercises spinner icons, in-place updates, annotations, duplicate
// folding, and expiry.
func (a *Application) demo() {
	sp, err := spin.New("dots", 0)
	if err != nil {
		a.log.Error("demo spinner: %v", err)
		return
	}

	bc := notify.DefaultGroupConfig()
	bc.Name = notify.Static("build")
	bc.Icon = sp
	bc.IconStyle = highlight.GroupIcon
	bc.IconOnLeft = true
	a.model.RegisterGroup("build", bc)

	dc := notify.DefaultGroupConfig()
	dc.Name = notify.Static("diagnostics")
	a.model.RegisterGroup("lsp", dc)

	stages := []string{"compiling parser", "compiling renderer", "linking chime"}
	for _, stage := range stages {
		if !a.stage(400*time.Millisecond, notify.Notification{
			Group:   "build",
			Key:     "job",
			Message: stage,
			TTL:     -1,
		}) {
			return
		}
	}
	if !a.stage(400*time.Millisecond, notify.Notification{
		Group:   "build",
		Key:     "job",
		Message: "build finished in 1.2s",
		Style:   highlight.GroupSuccess,
		TTL:     4 * time.Second,
	}) {
		return
	}

	if !a.stage(300*time.Millisecond, notify.Notification{
		Group:   "lsp",
		Annote:  "WARN",
		Message: "unused variable `count` in poll.go",
		TTL:     8 * time.Second,
	}) {
		return
	}
	if !a.stage(300*time.Millisecond, notify.Notification{
		Group:   "lsp",
		Annote:  "ERROR",
		Style:   highlight.GroupError,
		Message: "cannot use cfg (type Config) as renderer.Options in assignment",
		TTL:     10 * time.Second,
	}) {
		return
	}

	// Same content posted as separate items folds into one row with a
	// count.
	for i := 0; i < 3; i++ {
		if !a.stage(200*time.Millisecond, notify.Notification{
			Group:      "lsp",
			ContentKey: "disk",
			Annote:     "WARN",
			Message:    "low disk space on /tmp",
			TTL:        6 * time.Second,
		}) {
			return
		}
	}
}

// stage waits d, then posts n. It reports false once the application
// is shutting down.
func (a *Application) stage(d time.Duration, n notify.Notification) bool {
	select {
	case <-a.done:
		return false
	case <-time.After(d):
		a.Post(n)
		return true
	}
}
