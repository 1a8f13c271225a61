package responses

// ViewerSession is what the viewer frontend polls after the relay exchange.
// The accessible-patient summary is presentation state; the authoritative
// decision still happens server-side on every fetch.
type ViewerSession struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
	HasFullAccess bool      `json:"has_full_access,omitempty"`
	PatientCount  int       `json:"patient_count,omitempty"`
}
