package repos_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/tofcam/pkg/database/dbconn"
	"github.com/tauraamui/tofcam/pkg/database/models"
	"github.com/tauraamui/tofcam/pkg/database/repos"
)

func TestCaptureSessionRepoCreateNoErr(t *testing.T) {
	is := is.New(t)

	gorm := dbconn.Mock()
	repo := repos.CaptureSessionRepository{DB: gorm}

	session := models.CaptureSession{
		CameraUUID:  "camera-uuid-1234",
		CameraTitle: "FrontDoor",
		Kind:        "depth",
	}
	is.NoErr(repo.Create(&session))
	is.Equal(len(gorm.Created()), 1)
	is.Equal(gorm.Created()[0], &session)
}

func TestCaptureSessionRepoFindByUUID(t *testing.T) {
	is := is.New(t)

	existing := models.CaptureSession{
		UUID:       "session-uuid-1234",
		CameraUUID: "camera-uuid-1234",
	}

	gorm := dbconn.Mock().SetResult(existing)
	repo := repos.CaptureSessionRepository{DB: gorm}

	session, err := repo.FindByUUID("session-uuid-1234")
	is.NoErr(err)
	is.Equal(session.CameraUUID, "camera-uuid-1234")
	is.Equal(gorm.Chain().Where.Query, "uuid = ?")
}

func TestCaptureSessionRepoFindLatestByCameraUUID(t *testing.T) {
	is := is.New(t)

	existing := models.CaptureSession{
		UUID:       "session-uuid-1234",
		CameraUUID: "camera-uuid-1234",
	}

	gorm := dbconn.Mock().SetResult(existing)
	repo := repos.CaptureSessionRepository{DB: gorm}

	session, err := repo.FindLatestByCameraUUID("camera-uuid-1234")
	is.NoErr(err)
	is.Equal(session.UUID, "session-uuid-1234")
	is.Equal(gorm.Chain().Where.Query, "camera_uuid = ?")
}

func TestCaptureSessionRepoFindErrs(t *testing.T) {
	is := is.New(t)

	gorm := dbconn.Mock().SetError(errors.New("record not found"))
	repo := repos.CaptureSessionRepository{DB: gorm}

	_, err := repo.FindByUUID("missing")
	is.True(err != nil)
	is.Equal(err.Error(), "capture session of uuid missing not found")

	_, err = repo.FindLatestByCameraUUID("missing")
	is.True(err != nil)
	is.Equal(err.Error(), "no capture sessions found for camera missing")
}
