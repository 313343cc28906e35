package process

import (
	"context"
	"time"

	"github.com/tauraamui/tofcam/pkg/log"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

const frameRequestTimeout = 50 * time.Millisecond

type streamFrameProcess struct {
	ctx      context.Context
	cancel   context.CancelFunc
	stopping chan interface{}
	cam      Session
	title    string
	dest     chan *tofframe.Buffer
}

// NewStreamFrameProcess drives a camera's request/release loop,
// handing each ready frame over the dest channel. When the consumer
// falls behind frames go straight back to the camera.
func NewStreamFrameProcess(cam Session, title string, dest chan *tofframe.Buffer) Process {
	ctx, cancel := context.WithCancel(context.Background())
	return &streamFrameProcess{
		ctx: ctx, cancel: cancel,
		cam: cam, title: title, dest: dest, stopping: make(chan interface{}),
	}
}

func (proc *streamFrameProcess) Setup() {}

func (proc *streamFrameProcess) Start() {
	go proc.run()
}

func (proc *streamFrameProcess) run() {
	for {
		time.Sleep(1 * time.Microsecond)
		select {
		case <-proc.ctx.Done():
			close(proc.stopping)
			return
		default:
			stream(proc.cam, proc.title, proc.dest)
		}
	}
}

func stream(cam Session, title string, frames chan *tofframe.Buffer) {
	if !cam.IsOpen() {
		return
	}

	log.Debug("Requesting frame from depth stream for camera [%s]", title)
	frame, err := cam.RequestFrame(frameRequestTimeout)
	if err != nil {
		return
	}

	select {
	case frames <- frame:
		log.Debug("Sending frame from cam to buffer...")
	default:
		cam.ReleaseFrame(frame) //nolint
		log.Debug("Buffer full...")
	}
}

func (proc *streamFrameProcess) Stop() {
	proc.cancel()
}

func (proc *streamFrameProcess) Wait() {
	<-proc.stopping
}
