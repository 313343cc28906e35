package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

// Camera is one configured depth sensor module.
type Camera struct {
	Title           string `json:"title" validate:"empty=false"`
	Transport       string `json:"transport"`
	Index           int    `json:"index" validate:"gte=0"`
	OutputKind      string `json:"output_kind"`
	Range           int    `json:"range"`
	FPS             int    `json:"fps" validate:"gte=1 & lte=30"`
	Exposure        int    `json:"exposure" validate:"gte=0 & lte=65535"`
	WorkMode        int    `json:"work_mode" validate:"gte=0"`
	FrameMode       int    `json:"frame_mode" validate:"gte=0"`
	SkipFrame       int    `json:"skip_frame" validate:"gte=0 & lte=255"`
	SkipFrameLoop   int    `json:"skip_frame_loop" validate:"gte=0 & lte=255"`
	Disabled        bool   `json:"disabled"`
	SnapshotSeconds int    `json:"snapshot_every_seconds" validate:"gte=0"`
	PersistLoc      string `json:"persist_location"`
}

type Values struct {
	Debug   bool     `json:"debug"`
	Secret  string   `json:"secret"`
	Cameras []Camera `json:"cameras"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if hasDupCameraTitles(v.Cameras) {
		return fmt.Errorf(validationErrorHeader, errors.New("camera titles must be unique"))
	}
	for _, cam := range v.Cameras {
		if err := validateTransport(cam.Transport); err != nil {
			return fmt.Errorf(validationErrorHeader, err)
		}
		if err := validateRange(cam.Range); err != nil {
			return fmt.Errorf(validationErrorHeader, err)
		}
	}
	return nil
}

func validateTransport(t string) error {
	switch t {
	case "", "csi", "usb":
		return nil
	}
	return fmt.Errorf("camera transport must be csi or usb, got: %s", t)
}

func validateRange(r int) error {
	switch r {
	case 0, 2000, 4000:
		return nil
	}
	return fmt.Errorf("camera range must be 2000 or 4000, got: %d", r)
}

func hasDupCameraTitles(cameras []Camera) (hasDup bool) {
	hasDup = false
	if len(cameras) == 0 {
		return
	}

	for ci, cam := range cameras {
		for i := ci; i < len(cameras); i++ {
			if i == ci {
				continue
			}
			if cam.Title == cameras[i].Title {
				hasDup = true
				return
			}
		}
	}
	return
}
