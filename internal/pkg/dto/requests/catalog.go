package requests

// CatalogPatientDetail identifies one catalog read made on behalf of a
// caller. The network fields travel into the audit entry written by the
// access check that guards the read.
type CatalogPatientDetail struct {
	CallerUserID string `validate:"required"`
	PatientID    string `validate:"required"`
	IPAddress    string `validate:"-"`
	UserAgent    string `validate:"-"`
}

type CatalogSearch struct {
	CallerUserID string `validate:"required"`
	NameQuery    string `validate:"required"`
	Limit        int    `validate:"omitempty,gte=1,lte=100"`
}
