package models

import "time"

// AccessEvent is the broker payload published when a relationship changes in
// a way administrators need to see.
type AccessEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	PatientID  string    `json:"patient_id"`
	RecordID   string    `json:"record_id"`
	Kind       string    `json:"kind,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AdminNotification is the persisted form of an AccessEvent, written by the
// queue consumer and read by the admin review listing.
type AdminNotification struct {
	ID        string `bson:"_id,omitempty"`
	Type      string `bson:"type"`
	UserID    string `bson:"userId"`
	PatientID string `bson:"patientId"`
	RecordID  string `bson:"recordId,omitempty"`
	Message   string `bson:"message"`
	TimeModel `bson:",inline"`
}
