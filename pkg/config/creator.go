package config

import (
	"github.com/tauraamui/tofcam/internal/config"
	"github.com/tauraamui/tofcam/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
