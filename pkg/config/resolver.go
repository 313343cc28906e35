package config

import (
	"github.com/tauraamui/tofcam/internal/config"
	"github.com/tauraamui/tofcam/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
