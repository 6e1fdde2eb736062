package session

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"onboarding-records/internal/apperror"
)

// Verifier checks a credential pair and returns the role it grants.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (Role, error)
}

// CredentialVerifier grants admin to one configured username and employee to
// any other non-empty username presenting the shared employee password.
// Both passwords are held only as bcrypt hashes.
type CredentialVerifier struct {
	adminUsername        string
	adminPasswordHash    []byte
	employeePasswordHash []byte
}

func NewCredentialVerifier(adminUsername, adminPasswordHash, employeePasswordHash string) *CredentialVerifier {
	return &CredentialVerifier{
		adminUsername:        adminUsername,
		adminPasswordHash:    []byte(adminPasswordHash),
		employeePasswordHash: []byte(employeePasswordHash),
	}
}

func (v *CredentialVerifier) Verify(_ context.Context, username, password string) (Role, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", errInvalidCredentials()
	}

	if username == v.adminUsername {
		if bcrypt.CompareHashAndPassword(v.adminPasswordHash, []byte(password)) == nil {
			return RoleAdmin, nil
		}
		return "", errInvalidCredentials()
	}

	if bcrypt.CompareHashAndPassword(v.employeePasswordHash, []byte(password)) == nil {
		return RoleEmployee, nil
	}
	return "", errInvalidCredentials()
}

// HashPassword produces a hash suitable for ADMIN_PASSWORD_HASH and
// EMPLOYEE_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func errInvalidCredentials() error {
	return apperror.New(apperror.CodeUnauthorized, "invalid credentials")
}
