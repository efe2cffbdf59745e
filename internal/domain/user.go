package domain

// UserStatus is the account lock state.
type UserStatus int

const (
	UserStatusLocked UserStatus = 0
	UserStatusActive UserStatus = 1
)

// RoleUser is assigned when registration does not name a role.
const RoleUser = "user"

// LockLabel is the only status label that locks an account.
const LockLabel = "Lock"

// StatusFromLabel maps the admin UI label to a status: "Lock" locks,
// anything else activates.
func StatusFromLabel(label string) UserStatus {
	if label == LockLabel {
		return UserStatusLocked
	}
	return UserStatusActive
}

// User is a registered account. Extra carries any additional fields
// submitted at registration.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	Status       UserStatus
	Extra        map[string]any
}

// reservedUserFields are owned by the service and never taken from Extra.
var reservedUserFields = map[string]struct{}{
	"_id":      {},
	"id":       {},
	"email":    {},
	"password": {},
	"role":     {},
	"status":   {},
}

// IsReservedUserField reports whether key names a field the service manages.
func IsReservedUserField(key string) bool {
	_, ok := reservedUserFields[key]
	return ok
}

// Document renders the user as a flat JSON document. The password hash is
// only included when withPassword is set.
func (u *User) Document(withPassword bool) map[string]any {
	doc := make(map[string]any, len(u.Extra)+5)
	for k, v := range u.Extra {
		if IsReservedUserField(k) {
			continue
		}
		doc[k] = v
	}
	doc["_id"] = u.ID
	doc["email"] = u.Email
	doc["role"] = u.Role
	doc["status"] = int(u.Status)
	if withPassword {
		doc["password"] = u.PasswordHash
	}
	return doc
}
