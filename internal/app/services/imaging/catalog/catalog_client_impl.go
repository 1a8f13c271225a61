package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var (
	imagingCatalogClientInstance contracts.ImagingCatalogClient
	onceImagingCatalogClient     sync.Once
)

// imagingCatalogClient reads the catalog's loosely typed JSON. Field names
// belong to the catalog (DICOM main tags); gjson plucks them without binding
// us to the full payload shape.
type imagingCatalogClient struct {
	BaseUrl  string
	Username string
	Password string
	Client   *http.Client
	Log      *zap.Logger
}

func NewImagingCatalogClient(cfg config.AppCatalog, logger *zap.Logger) contracts.ImagingCatalogClient {
	onceImagingCatalogClient.Do(func() {
		timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client := &imagingCatalogClient{
			BaseUrl:  cfg.BaseUrl,
			Username: cfg.Username,
			Password: cfg.Password,
			Client:   &http.Client{Timeout: timeout},
			Log:      logger,
		}
		imagingCatalogClientInstance = client
	})
	return imagingCatalogClientInstance
}

func (c *imagingCatalogClient) GetPatient(ctx context.Context, patientID string) (*responses.CatalogPatient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("imagingCatalogClient.GetPatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	body, status, err := c.doGet(ctx, fmt.Sprintf("%s/patients/%s", c.BaseUrl, patientID))
	if err != nil {
		c.Log.Error("imagingCatalogClient.GetPatient error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if status == constvars.StatusNotFound {
		return nil, nil
	}
	if status != constvars.StatusOK {
		statusErr := fmt.Errorf("unexpected status %d", status)
		c.Log.Error("imagingCatalogClient.GetPatient catalog error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(statusErr),
		)
		return nil, exceptions.ErrCatalogGetPatient(statusErr)
	}

	if !gjson.ValidBytes(body) {
		return nil, exceptions.ErrCatalogDecodeResponse(fmt.Errorf("invalid JSON payload"))
	}
	patient := buildCatalogPatient(gjson.ParseBytes(body))

	c.Log.Info("imagingCatalogClient.GetPatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patient.PatientID),
	)
	return &patient, nil
}

func (c *imagingCatalogClient) ListStudies(ctx context.Context, patientID string) ([]responses.CatalogStudy, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("imagingCatalogClient.ListStudies called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	body, status, err := c.doGet(ctx, fmt.Sprintf("%s/patients/%s/studies", c.BaseUrl, patientID))
	if err != nil {
		c.Log.Error("imagingCatalogClient.ListStudies error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	// A patient without studies and an unknown patient both answer the same
	// way here; existence is the access layer's question, not ours.
	if status == constvars.StatusNotFound {
		return []responses.CatalogStudy{}, nil
	}
	if status != constvars.StatusOK {
		statusErr := fmt.Errorf("unexpected status %d", status)
		c.Log.Error("imagingCatalogClient.ListStudies catalog error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(statusErr),
		)
		return nil, exceptions.ErrCatalogListStudies(statusErr)
	}

	if !gjson.ValidBytes(body) {
		return nil, exceptions.ErrCatalogDecodeResponse(fmt.Errorf("invalid JSON payload"))
	}

	studies := []responses.CatalogStudy{}
	for _, item := range gjson.ParseBytes(body).Array() {
		studies = append(studies, buildCatalogStudy(item, patientID))
	}

	c.Log.Info("imagingCatalogClient.ListStudies succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Int("study_count", len(studies)),
	)
	return studies, nil
}

func (c *imagingCatalogClient) SearchPatients(ctx context.Context, nameQuery string, limit int) ([]responses.CatalogPatient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("imagingCatalogClient.SearchPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryKey, nameQuery),
	)

	if limit <= 0 {
		limit = 25
	}
	findRequest := map[string]interface{}{
		"Level":  "Patient",
		"Expand": true,
		"Limit":  limit,
		"Query": map[string]string{
			"PatientName": "*" + nameQuery + "*",
		},
	}
	requestJSON, err := json.Marshal(findRequest)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, fmt.Sprintf("%s/tools/find", c.BaseUrl), bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	c.setAuth(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Log.Error("imagingCatalogClient.SearchPatients error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCatalogUnreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrCatalogDecodeResponse(err)
	}
	if resp.StatusCode != constvars.StatusOK {
		statusErr := fmt.Errorf("unexpected status %d", resp.StatusCode)
		c.Log.Error("imagingCatalogClient.SearchPatients catalog error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(statusErr),
		)
		return nil, exceptions.ErrCatalogSearchPatients(statusErr)
	}
	if !gjson.ValidBytes(body) {
		return nil, exceptions.ErrCatalogDecodeResponse(fmt.Errorf("invalid JSON payload"))
	}

	patients := []responses.CatalogPatient{}
	for _, item := range gjson.ParseBytes(body).Array() {
		patients = append(patients, buildCatalogPatient(item))
	}

	c.Log.Info("imagingCatalogClient.SearchPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("patient_count", len(patients)),
	)
	return patients, nil
}

func (c *imagingCatalogClient) PatientExists(ctx context.Context, patientID string) (bool, error) {
	patient, err := c.GetPatient(ctx, patientID)
	if err != nil {
		return false, err
	}
	return patient != nil, nil
}

func (c *imagingCatalogClient) doGet(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		return nil, 0, exceptions.ErrCreateHTTPRequest(err)
	}
	c.setAuth(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, 0, exceptions.ErrCatalogUnreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, exceptions.ErrCatalogDecodeResponse(err)
	}
	return body, resp.StatusCode, nil
}

func (c *imagingCatalogClient) setAuth(req *http.Request) {
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
}

func buildCatalogPatient(item gjson.Result) responses.CatalogPatient {
	patientID := item.Get("MainDicomTags.PatientID").String()
	if patientID == "" {
		patientID = item.Get("ID").String()
	}
	return responses.CatalogPatient{
		PatientID:   patientID,
		PatientName: item.Get("MainDicomTags.PatientName").String(),
		BirthDate:   item.Get("MainDicomTags.PatientBirthDate").String(),
		Sex:         item.Get("MainDicomTags.PatientSex").String(),
		StudyCount:  int(item.Get("Studies.#").Int()),
		LastIndexed: item.Get("LastUpdate").String(),
	}
}

func buildCatalogStudy(item gjson.Result, patientID string) responses.CatalogStudy {
	studyID := item.Get("MainDicomTags.StudyInstanceUID").String()
	if studyID == "" {
		studyID = item.Get("ID").String()
	}
	return responses.CatalogStudy{
		StudyID:          studyID,
		PatientID:        patientID,
		StudyDate:        item.Get("MainDicomTags.StudyDate").String(),
		StudyDescription: item.Get("MainDicomTags.StudyDescription").String(),
		Modality:         item.Get("MainDicomTags.Modality").String(),
		SeriesCount:      int(item.Get("Series.#").Int()),
		InstanceCount:    int(item.Get("NumberOfInstances").Int()),
	}
}
