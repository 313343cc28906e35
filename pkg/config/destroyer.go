package config

import (
	"github.com/tauraamui/tofcam/internal/config"
	"github.com/tauraamui/tofcam/pkg/configdef"
)

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
