package process

import (
	"context"
	"time"

	"github.com/tauraamui/tofcam/pkg/log"
	"github.com/tauraamui/tofcam/pkg/snapshot"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

// saveSnapshot is swapped out by tests to avoid rendering real PNGs.
var saveSnapshot = snapshot.Save

type snapshotProcess struct {
	ctx        context.Context
	cancel     context.CancelFunc
	stopping   chan interface{}
	cam        Session
	title      string
	persistLoc string
	kind       tofframe.Kind
	rangeMM    int
	every      time.Duration
	lastSaved  time.Time
	frames     chan *tofframe.Buffer
}

// NewSnapshotProcess consumes streamed frames, periodically rendering
// one to a PNG under persistLoc before handing the frame back to the
// camera.
func NewSnapshotProcess(
	cam Session, title, persistLoc string,
	kind tofframe.Kind, rangeMM int,
	every time.Duration, frames chan *tofframe.Buffer,
) Process {
	ctx, cancel := context.WithCancel(context.Background())
	return &snapshotProcess{
		ctx: ctx, cancel: cancel,
		cam: cam, title: title, persistLoc: persistLoc,
		kind: kind, rangeMM: rangeMM,
		every: every, frames: frames, stopping: make(chan interface{}),
	}
}

func (proc *snapshotProcess) Setup() {}

func (proc *snapshotProcess) Start() {
	go proc.run()
}

func (proc *snapshotProcess) run() {
	for {
		time.Sleep(1 * time.Microsecond)
		select {
		case <-proc.ctx.Done():
			close(proc.stopping)
			return
		default:
			select {
			case frame := <-proc.frames:
				proc.handleFrame(frame)
			default:
				continue
			}
		}
	}
}

func (proc *snapshotProcess) handleFrame(frame *tofframe.Buffer) {
	defer proc.cam.ReleaseFrame(frame) //nolint

	if proc.every <= 0 || time.Since(proc.lastSaved) < proc.every {
		return
	}

	path, err := saveSnapshot(proc.persistLoc, proc.title, frame, proc.kind, proc.rangeMM)
	if err != nil {
		log.Error("unable to save snapshot for camera [%s]: %s", proc.title, err.Error())
		return
	}

	proc.lastSaved = time.Now()
	log.Info("Saved snapshot for camera [%s]: %s", proc.title, path)
}

func (proc *snapshotProcess) Stop() {
	proc.cancel()
}

func (proc *snapshotProcess) Wait() {
	<-proc.stopping
}
