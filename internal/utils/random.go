package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Ingrid", "Astrid", "Solveig", "Marit", "Kari", "Liv", "Anne", "Silje",
	"Ola", "Lars", "Knut", "Erik", "Magnus", "Henrik", "Bjørn", "Per",
}

var commonSurnames = []string{
	"Hansen", "Johansen", "Olsen", "Larsen", "Andersen", "Pedersen",
	"Nilsen", "Kristiansen", "Jensen", "Karlsen", "Berg", "Haugen",
}

func GenerateRandomNorwegianName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonSurnames[rand.Intn(len(commonSurnames))]
	return first + " " + last
}

var digits = "0123456789"

// GenerateUsernameFromName lowercases the name and appends a few digits. The
// names here are Latin-script, so no transliteration step is needed.
func GenerateUsernameFromName(name string) string {
	username := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	username = strings.Map(func(r rune) rune {
		switch r {
		case 'æ':
			return 'a'
		case 'ø':
			return 'o'
		case 'å':
			return 'a'
		}
		return r
	}, username)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomNorwegianName()
	username := GenerateUsernameFromName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RolePlanner,
	}

	return user, nil
}

var departments = []domain.Department{domain.DepartmentCare, domain.DepartmentService}

func GenerateRandomEmployee() *domain.Employee {
	return &domain.Employee{
		Name:       GenerateRandomNorwegianName(),
		Department: departments[rand.Intn(len(departments))],
		IsActive:   true,
	}
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
