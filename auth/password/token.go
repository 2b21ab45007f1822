package password

import "github.com/google/uuid"

// GenerateResetToken returns a fresh random (v4) UUID for the password
// reset flow.
func GenerateResetToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
