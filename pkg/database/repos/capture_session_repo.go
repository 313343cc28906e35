package repos

import (
	"github.com/tauraamui/tofcam/pkg/database/dbconn"
	"github.com/tauraamui/tofcam/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type CaptureSessionRepository struct {
	DB dbconn.GormWrapper
}

func (r *CaptureSessionRepository) Create(session *models.CaptureSession) error {
	return r.DB.Create(session).Error()
}

func (r *CaptureSessionRepository) FindByUUID(uuid string) (models.CaptureSession, error) {
	session := models.CaptureSession{}
	if err := r.DB.Where("uuid = ?", uuid).First(&session).Error(); err != nil {
		return session, xerror.Errorf("capture session of uuid %s not found", uuid)
	}

	return session, nil
}

func (r *CaptureSessionRepository) FindLatestByCameraUUID(cameraUUID string) (models.CaptureSession, error) {
	session := models.CaptureSession{}
	if err := r.DB.Where("camera_uuid = ?", cameraUUID).First(&session).Error(); err != nil {
		return session, xerror.Errorf("no capture sessions found for camera %s", cameraUUID)
	}

	return session, nil
}
