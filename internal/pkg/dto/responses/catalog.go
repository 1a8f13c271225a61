package responses

// CatalogPatient mirrors the read-only projection exposed by the imaging
// catalog; the catalog owns the identifier space and the field semantics.
type CatalogPatient struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	BirthDate   string `json:"patient_birth_date,omitempty"`
	Sex         string `json:"patient_sex,omitempty"`
	StudyCount  int    `json:"study_count"`
	LastIndexed string `json:"last_indexed,omitempty"`
}

type CatalogStudy struct {
	StudyID          string `json:"study_id"`
	PatientID        string `json:"patient_id"`
	StudyDate        string `json:"study_date,omitempty"`
	StudyDescription string `json:"study_description,omitempty"`
	Modality         string `json:"modality,omitempty"`
	SeriesCount      int    `json:"series_count"`
	InstanceCount    int    `json:"instance_count"`
}
