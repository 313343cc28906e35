package process

import (
	"sync"
	"time"

	"github.com/tauraamui/tofcam/pkg/configdef"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

const frameBufferCapacity = 3

// NewCoreProcess composes the full per-camera pipeline: the stream
// loop feeding frames into the snapshot consumer, with a session
// audit row recorded on shutdown. The recorder may be nil when the
// daemon runs without a database.
func NewCoreProcess(cam Session, cfg configdef.Camera, recorder SessionRecorder) Process {
	return &cameraPipeline{
		cam:    cam,
		cfg:    cfg,
		rec:    recorder,
		frames: make(chan *tofframe.Buffer, frameBufferCapacity),
	}
}

type cameraPipeline struct {
	cam    Session
	cfg    configdef.Camera
	rec    SessionRecorder
	frames chan *tofframe.Buffer

	streamFrames  Process
	takeSnapshots Process
	recordSession Process
}

func (proc *cameraPipeline) Setup() {
	kind := tofframe.ResolveKind(proc.cfg.OutputKind)

	proc.streamFrames = NewStreamFrameProcess(proc.cam, proc.cfg.Title, proc.frames)
	proc.takeSnapshots = NewSnapshotProcess(
		proc.cam, proc.cfg.Title, proc.cfg.PersistLoc,
		kind, proc.cfg.Range,
		time.Duration(proc.cfg.SnapshotSeconds)*time.Second,
		proc.frames,
	)
	proc.recordSession = NewRecordProcess(proc.cam, proc.rec, proc.cfg.Title, kind, proc.cfg.Range)
}

func (proc *cameraPipeline) Start() {
	proc.recordSession.Start()
	proc.takeSnapshots.Start()
	proc.streamFrames.Start()
}

func (proc *cameraPipeline) Stop() {
	proc.streamFrames.Stop()
	proc.takeSnapshots.Stop()
	proc.recordSession.Stop()
}

func (proc *cameraPipeline) Wait() {
	wg := sync.WaitGroup{}
	wg.Add(3)
	go func(wg *sync.WaitGroup) {
		proc.streamFrames.Wait()
		wg.Done()
	}(&wg)
	go func(wg *sync.WaitGroup) {
		proc.takeSnapshots.Wait()
		wg.Done()
	}(&wg)
	go func(wg *sync.WaitGroup) {
		proc.recordSession.Wait()
		wg.Done()
	}(&wg)
	wg.Wait()
}
