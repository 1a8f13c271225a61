package viewer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const headerAPIKey = "x-api-key"

var (
	accessServiceClientInstance contracts.AccessServiceClient
	onceAccessServiceClient     sync.Once
)

// accessServiceClient talks to the authorization service with the internal
// API key. Unreachable or inscrutable answers surface as errors; callers
// treat every error as a denial.
type accessServiceClient struct {
	BaseUrl string
	APIKey  string
	Client  *http.Client
	Log     *zap.Logger
}

func NewAccessServiceClient(cfg config.AppViewer, apiKey string, logger *zap.Logger) contracts.AccessServiceClient {
	onceAccessServiceClient.Do(func() {
		timeout := time.Duration(cfg.AccessServiceTimeoutInSecs) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client := &accessServiceClient{
			BaseUrl: cfg.AccessServiceBaseUrl,
			APIKey:  apiKey,
			Client:  &http.Client{Timeout: timeout},
			Log:     logger,
		}
		accessServiceClientInstance = client
	})
	return accessServiceClientInstance
}

func (c *accessServiceClient) VerifyRelayToken(ctx context.Context, relayToken string) (*responses.UserInfo, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("accessServiceClient.VerifyRelayToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/auth/verify", c.BaseUrl), nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(headerAPIKey, c.APIKey)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+relayToken)

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Log.Error("accessServiceClient.VerifyRelayToken error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrAccessServiceUnreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusUnauthorized {
		c.Log.Warn("accessServiceClient.VerifyRelayToken token rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrRelayTokenRejected(nil)
	}
	if resp.StatusCode != constvars.StatusOK {
		statusErr := fmt.Errorf("unexpected status %d", resp.StatusCode)
		c.Log.Error("accessServiceClient.VerifyRelayToken authorization service error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(statusErr),
		)
		return nil, exceptions.ErrAccessServiceUnexpected(statusErr)
	}

	envelope := struct {
		Data responses.VerifyToken `json:"data"`
	}{}
	if err := c.decode(resp.Body, &envelope); err != nil {
		return nil, err
	}

	c.Log.Info("accessServiceClient.VerifyRelayToken succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, envelope.Data.User.ID),
	)
	return &envelope.Data.User, nil
}

func (c *accessServiceClient) CheckAccess(ctx context.Context, userID, patientID, accessType string) (*responses.AccessDecision, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("accessServiceClient.CheckAccess called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	query := url.Values{}
	query.Set("user_id", userID)
	query.Set("patient_id", patientID)
	query.Set("access_type", accessType)

	envelope := struct {
		Data responses.AccessDecision `json:"data"`
	}{}
	err := c.doGet(ctx, fmt.Sprintf("%s/access/check?%s", c.BaseUrl, query.Encode()), &envelope)
	if err != nil {
		c.Log.Error("accessServiceClient.CheckAccess error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("accessServiceClient.CheckAccess succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool("allowed", envelope.Data.Allowed),
	)
	return &envelope.Data, nil
}

func (c *accessServiceClient) ListAccessiblePatients(ctx context.Context, userID string) (*responses.AccessiblePatients, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("accessServiceClient.ListAccessiblePatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)

	envelope := struct {
		Data responses.AccessiblePatients `json:"data"`
	}{}
	err := c.doGet(ctx, fmt.Sprintf("%s/access/users/%s/patients", c.BaseUrl, url.PathEscape(userID)), &envelope)
	if err != nil {
		c.Log.Error("accessServiceClient.ListAccessiblePatients error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("accessServiceClient.ListAccessiblePatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("patient_count", envelope.Data.PatientCount),
	)
	return &envelope.Data, nil
}

func (c *accessServiceClient) doGet(ctx context.Context, requestURL string, envelope interface{}) error {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, requestURL, nil)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(headerAPIKey, c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return exceptions.ErrAccessServiceUnreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return exceptions.ErrAccessServiceUnexpected(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return c.decode(resp.Body, envelope)
}

func (c *accessServiceClient) decode(body io.Reader, envelope interface{}) error {
	if err := json.NewDecoder(body).Decode(envelope); err != nil {
		return exceptions.ErrAccessServiceDecode(err)
	}
	return nil
}
