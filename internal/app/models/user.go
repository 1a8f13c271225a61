package models

import "go.mongodb.org/mongo-driver/bson"

// User accounts are deactivated, never removed, so audit entries keep a
// resolvable subject.
type User struct {
	ID        string `bson:"_id,omitempty"`
	Email     string `bson:"email"`
	Name      string `bson:"name"`
	Password  string `bson:"password"`
	Role      string `bson:"role"`
	PatientID string `bson:"patientId,omitempty"`
	Active    bool   `bson:"active"`
	TimeModel `bson:",inline"`
}

func (u *User) ConvertToBsonM() bson.M {
	return bson.M{
		"email":     u.Email,
		"name":      u.Name,
		"password":  u.Password,
		"role":      u.Role,
		"patientId": u.PatientID,
		"active":    u.Active,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}
