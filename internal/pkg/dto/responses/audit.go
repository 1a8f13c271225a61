package responses

type AuditEntry struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	PatientID  string `json:"patient_id"`
	AccessType string `json:"access_type"`
	Granted    bool   `json:"granted"`
	Reason     string `json:"reason,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type AuditExport struct {
	ObjectName  string `json:"object_name"`
	DownloadURL string `json:"download_url"`
	URLExpires  string `json:"url_expires"`
	EntryCount  int    `json:"entry_count"`
}
