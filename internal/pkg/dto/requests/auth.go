package requests

type LoginUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RelayTokenExchange carries a relayed token handed over by the viewer for
// re-verification.
type RelayTokenExchange struct {
	Token string `json:"token" validate:"required"`
}
