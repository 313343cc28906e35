package repos

import (
	"github.com/tauraamui/tofcam/pkg/database/dbconn"
	"github.com/tauraamui/tofcam/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type OperatorRepository struct {
	DB dbconn.GormWrapper
}

func (r *OperatorRepository) Create(operator *models.Operator) error {
	return r.DB.Create(operator).Error()
}

func (r *OperatorRepository) FindByUUID(uuid string) (models.Operator, error) {
	operator := models.Operator{}
	if err := r.DB.Where("uuid = ?", uuid).First(&operator).Error(); err != nil {
		return operator, xerror.Errorf("operator of uuid %s not found", uuid)
	}

	return operator, nil
}

func (r *OperatorRepository) FindByName(name string) (models.Operator, error) {
	operator := models.Operator{}
	if err := r.DB.Where("name = ?", name).First(&operator).Error(); err != nil {
		return operator, xerror.Errorf("operator of name %s not found", name)
	}

	return operator, nil
}

// Authenticate resolves the named operator and checks the given
// password against their stored hash.
func (r *OperatorRepository) Authenticate(name, password string) (models.Operator, error) {
	operator, err := r.FindByName(name)
	if err != nil {
		return models.Operator{}, err
	}

	if err := operator.ComparePassword(password); err != nil {
		return models.Operator{}, err
	}

	return operator, nil
}
