package responses

type AdminNotification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	UserID    string `json:"user_id,omitempty"`
	PatientID string `json:"patient_id,omitempty"`
	RecordID  string `json:"record_id,omitempty"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}
