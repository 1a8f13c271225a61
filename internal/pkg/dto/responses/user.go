package responses

type CreateUser struct {
	UserID string `json:"user_id"`
}

type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	PatientID string `json:"patient_id,omitempty"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}
