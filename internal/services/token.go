package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const invitationTokenBytes = 32

// newInvitationToken returns an unguessable invitation token. Tokens are
// the external lookup key handed to guests and are never reused.
func newInvitationToken() (string, error) {
	b := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate invitation token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
