package responses

type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginUser struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type AuthStatus struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
}

// VerifyToken is the identity-check payload consumed by the viewer's
// verifier.
type VerifyToken struct {
	User UserInfo `json:"user"`
}
