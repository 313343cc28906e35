package models

import (
	"github.com/google/uuid"
	"github.com/tauraamui/tofcam/pkg/log"
	"github.com/tauraamui/xerror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Operator{})
}

// Operator is an account permitted to subscribe to streams and drive
// camera controls remotely.
type Operator struct {
	gorm.Model
	UUID         string
	Name         string
	AuthHash     string
	SessionToken string
}

func (o *Operator) BeforeCreate(tx *gorm.DB) error {
	o.UUID = uuid.NewString()
	o.AuthHash = enc(o.AuthHash)
	return nil
}

func (o *Operator) ComparePassword(password string) error {
	return cmp(o.AuthHash, password)
}

func enc(p string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		log.Error(xerror.Errorf("unable to generate hash and salt from password: %w", err).Error()) //nolint
		return p
	}

	return string(h)
}

func cmp(h, p string) error {
	hb, pb := []byte(h), []byte(p)
	err := bcrypt.CompareHashAndPassword(hb, pb)
	if err != nil {
		return xerror.Errorf("incorrect password: %w", err)
	}

	return nil
}
