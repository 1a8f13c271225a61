package requests

type CreateUser struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"password"`
	Role     string `json:"role" validate:"required,oneof=Admin Radiologist Technician 'Referring Doctor' Patient"`
	// PatientID links a Patient-role account to its own record in the imaging
	// catalog; ignored for other roles.
	PatientID string `json:"patient_id,omitempty"`
}

type UpdateUserRole struct {
	Role string `json:"role" validate:"required,oneof=Admin Radiologist Technician 'Referring Doctor' Patient"`
}
