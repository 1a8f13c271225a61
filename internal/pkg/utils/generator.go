package utils

import (
	"fmt"
	"radgate-service/internal/pkg/constvars"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateSessionID() string {
	return uuid.NewString()
}

// GenerateExportObjectName names an audit export object so listings sort by
// export time.
func GenerateExportObjectName(prefix string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.ndjson", prefix, timestamp, uuid.NewString()[:8])
}
