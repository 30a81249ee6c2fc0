package fakers

import (
	"fmt"
	"math/rand"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/go-faker/faker/v4"
)

// UserFaker builds an unsaved USER account. The password is stored in plain
// text until the user repository hashes it.
func UserFaker(loginID, password string) *models.User {
	return &models.User{
		LoginID:  &loginID,
		Email:    faker.Email(),
		Name:     faker.FirstName() + " " + faker.LastName(),
		Phone:    fmt.Sprintf("010%08d", rand.Intn(100000000)),
		Password: password,
		Role:     models.RoleUser,
	}
}
