package profile

import (
	"fmt"
	"strconv"

	"github.com/go-faker/faker/v4"
)

// Random fills a form with plausible fake data, for demos and seeding.
func Random() (Form, error) {
	ages, err := faker.RandomInt(18, 80, 1)
	if err != nil {
		return Form{}, fmt.Errorf("random age: %w", err)
	}

	genders, err := faker.RandomInt(0, len(GenderOptions)-1, 1)
	if err != nil {
		return Form{}, fmt.Errorf("random gender: %w", err)
	}

	form := Form{
		Name:     faker.FirstName(),
		LastName: faker.LastName(),
		Age:      strconv.Itoa(ages[0]),
		Gender:   GenderOptions[genders[0]],
		Phone:    faker.Phonenumber(),
		Email:    faker.Email(),
	}

	return form, nil
}
