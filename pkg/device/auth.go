package device

import (
	"crypto/sha256"
	"encoding/hex"
)

// DefaultAuthUser is the only user name appliances accept for digest auth.
const DefaultAuthUser = "admin"

// HA1 derives the digest key SHA-256("user:realm:password") as lowercase hex.
// Only this digest is sent to the device; the password itself never is.
func HA1(user, realm, password string) string {
	sum := sha256.Sum256([]byte(user + ":" + realm + ":" + password))
	return hex.EncodeToString(sum[:])
}

// authPayload returns the Shelly.SetAuth request body.
func (c Credentials) authPayload() map[string]any {
	user := c.User
	if user == "" {
		user = DefaultAuthUser
	}
	return map[string]any{
		"user":  user,
		"realm": c.Realm,
		"ha1":   HA1(user, c.Realm, c.Password),
	}
}
