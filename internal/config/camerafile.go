package config

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/tofcam/pkg/configdef"
)

// LoadCameraFile reads a single-camera configuration file of the kind
// handed to the open-by-file camera call. Unset fields take the same
// defaults as daemon config camera entries.
func LoadCameraFile(path string) (configdef.Camera, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return configdef.Camera{}, errors.Errorf("unable to read camera file: %v", err)
	}

	var camera configdef.Camera
	if err := json.Unmarshal(content, &camera); err != nil {
		return configdef.Camera{}, errors.Errorf("parsing camera file error: %v", err)
	}

	if len(camera.Title) == 0 {
		camera.Title = path
	}

	cameras := []configdef.Camera{camera}
	loadDefaultCameraSettings(cameras)

	values := configdef.Values{Cameras: cameras}
	if err := values.RunValidate(); err != nil {
		return configdef.Camera{}, err
	}

	return cameras[0], nil
}
