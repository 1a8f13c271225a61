package requests

// AuditQuery filters the admin audit review listing. All fields optional;
// timestamps are RFC3339.
type AuditQuery struct {
	UserID     string `validate:"omitempty"`
	PatientID  string `validate:"omitempty"`
	Outcome    string `validate:"omitempty,oneof=granted denied"`
	AccessType string `validate:"omitempty,oneof=view download share"`
	From       string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To         string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Page       int    `validate:"omitempty,gte=1"`
	PageSize   int    `validate:"omitempty,gte=1,lte=500"`
}

type AuditExport struct {
	From string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To   string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
