package process_test

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/tofcam/internal/framequeue"
	"github.com/tauraamui/tofcam/pkg/configdef"
	"github.com/tauraamui/tofcam/pkg/database/models"
	"github.com/tauraamui/tofcam/pkg/tofd/process"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

type sessionRecorderCapture struct {
	created []*models.CaptureSession
}

func (s *sessionRecorderCapture) Create(session *models.CaptureSession) error {
	s.created = append(s.created, session)
	return nil
}

func TestRecordProcessPersistsSessionRowOnStop(t *testing.T) {
	is := is.New(t)

	cam := newMockCameraSession()
	cam.stats = framequeue.Stats{Published: 120, Delivered: 100, Dropped: 20}

	recorder := sessionRecorderCapture{}
	proc := process.NewRecordProcess(cam, &recorder, "TestCam", tofframe.KindDepth, 4000)
	proc.Setup()
	proc.Start()
	time.Sleep(time.Millisecond)
	proc.Stop()
	proc.Wait()

	is.Equal(len(recorder.created), 1)

	session := recorder.created[0]
	is.Equal(session.CameraUUID, "mock-session-uuid")
	is.Equal(session.CameraTitle, "TestCam")
	is.Equal(session.Kind, "depth")
	is.Equal(session.RangeMM, 4000)
	is.Equal(session.FrameCount, uint64(100))
	is.Equal(session.DroppedCount, uint64(20))
	is.True(session.EndedAt.After(session.StartedAt))
}

func TestRecordProcessWithoutRecorderIsANoOp(t *testing.T) {
	cam := newMockCameraSession()

	proc := process.NewRecordProcess(cam, nil, "TestCam", tofframe.KindDepth, 4000)
	proc.Setup()
	proc.Start()
	proc.Stop()
	proc.Wait()
}

func TestCoreProcessPipelineLifecycle(t *testing.T) {
	is := is.New(t)

	reset := process.OverloadSaveSnapshot(func(string, string, *tofframe.Buffer, tofframe.Kind, int) (string, error) {
		return "", nil
	})
	defer reset()

	cam := newMockCameraSession()
	recorder := sessionRecorderCapture{}

	proc := process.NewCoreProcess(cam, configdef.Camera{
		Title:           "TestCam",
		OutputKind:      "depth",
		Range:           4000,
		SnapshotSeconds: 1,
		PersistLoc:      "/testroot/snapshots",
	}, &recorder)

	proc.Setup()
	proc.Start()

	deadline := time.After(3 * time.Second)
	for cam.requestedCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("pipeline never pulled a frame from the camera")
		case <-time.After(time.Millisecond):
		}
	}

	proc.Stop()
	proc.Wait()

	is.Equal(len(recorder.created), 1)
	is.Equal(recorder.created[0].Kind, "depth")
}
