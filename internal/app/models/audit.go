package models

import "time"

// AccessAuditEntry is append-only. Every access decision writes exactly one
// entry, including denials for unknown users and unknown patients.
type AccessAuditEntry struct {
	ID         string    `bson:"_id,omitempty"`
	UserID     string    `bson:"userId"`
	PatientID  string    `bson:"patientId"`
	AccessType string    `bson:"accessType"`
	Granted    bool      `bson:"granted"`
	Reason     string    `bson:"reason"`
	IPAddress  string    `bson:"ipAddress,omitempty"`
	UserAgent  string    `bson:"userAgent,omitempty"`
	RequestID  string    `bson:"requestId,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
}
