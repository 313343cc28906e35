package config

import "github.com/tauraamui/tofcam/pkg/configdef"

type defaultSettingKey uint

const (
	CAMERAS    defaultSettingKey = 0x0
	TRANSPORT  defaultSettingKey = 0x1
	OUTPUTKIND defaultSettingKey = 0x2
	RANGE      defaultSettingKey = 0x3
	FPS        defaultSettingKey = 0x4
)

var defaultSettings = map[defaultSettingKey]interface{}{
	CAMERAS:    []configdef.Camera{},
	TRANSPORT:  "usb",
	OUTPUTKIND: "depth",
	RANGE:      4000,
	FPS:        30,
}
