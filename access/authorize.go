package access

import "github.com/castellanoconmh/aula"

// AdminOnly is the authorization rule guarding every admin entry point.
// It returns the signed-in user's home and false unless u is an admin.
func AdminOnly(u aula.User) (string, bool) {
	if u.IsAdmin() {
		return "", true
	}

	return u.HomePath(), false
}
