package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&CaptureSession{})
}

// CaptureSession records one start to stop run of a camera's stream,
// for auditing what the daemon captured and when.
type CaptureSession struct {
	gorm.Model
	UUID         string
	CameraUUID   string
	CameraTitle  string
	Kind         string
	RangeMM      int
	FrameCount   uint64
	DroppedCount uint64
	StartedAt    time.Time
	EndedAt      time.Time
}

func (c *CaptureSession) BeforeCreate(tx *gorm.DB) error {
	c.UUID = uuid.NewString()
	return nil
}
