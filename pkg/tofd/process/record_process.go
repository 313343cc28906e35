package process

import (
	"time"

	"github.com/tauraamui/tofcam/pkg/database/models"
	"github.com/tauraamui/tofcam/pkg/log"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

// SessionRecorder persists one capture session row. Satisfied by
// repos.CaptureSessionRepository.
type SessionRecorder interface {
	Create(*models.CaptureSession) error
}

type recordProcess struct {
	cam       Session
	recorder  SessionRecorder
	title     string
	kind      tofframe.Kind
	rangeMM   int
	startedAt time.Time
}

// NewRecordProcess writes an audit row for the camera's capture
// session when the pipeline shuts down.
func NewRecordProcess(cam Session, recorder SessionRecorder, title string, kind tofframe.Kind, rangeMM int) Process {
	return &recordProcess{
		cam: cam, recorder: recorder,
		title: title, kind: kind, rangeMM: rangeMM,
	}
}

func (proc *recordProcess) Setup() {}

func (proc *recordProcess) Start() {
	proc.startedAt = time.Now()
}

func (proc *recordProcess) Stop() {
	if proc.recorder == nil {
		return
	}

	stats := proc.cam.Stats()
	session := models.CaptureSession{
		CameraUUID:   proc.cam.UUID(),
		CameraTitle:  proc.title,
		Kind:         proc.kind.String(),
		RangeMM:      proc.rangeMM,
		FrameCount:   stats.Delivered,
		DroppedCount: stats.Dropped,
		StartedAt:    proc.startedAt,
		EndedAt:      time.Now(),
	}

	if err := proc.recorder.Create(&session); err != nil {
		log.Error("unable to persist capture session for camera [%s]: %s", proc.title, err.Error())
	}
}

func (proc *recordProcess) Wait() {}
