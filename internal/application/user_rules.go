package application

import (
	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
	"github.com/oksasatya/user-accounts-api/pkg/validation"
)

var userValidator = validation.New()

// userRules is the constraint set checked against every user before it is saved.
type userRules struct {
	Email     string   `json:"email" validate:"required,email,max=180"`
	FirstName string   `json:"firstName" validate:"required,max=255"`
	LastName  string   `json:"lastName" validate:"required,max=255"`
	Roles     []string `json:"roles" validate:"required,min=1,dive,required,startswith=ROLE_"`
}

// ValidateUser checks u as a whole and returns field -> message violations.
// An empty result means u may be persisted.
func ValidateUser(u *entity.User) map[string]string {
	return validation.Struct(userValidator, userRules{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.Roles,
	})
}
