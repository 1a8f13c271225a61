package utils

import (
	"net/http"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"strconv"
)

func BuildPaginationRequest(r *http.Request) *requests.Pagination {
	pageStr := r.URL.Query().Get("page")
	pageSizeStr := r.URL.Query().Get("page_size")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page <= 0 {
		page = 1
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize <= 0 {
		pageSize = 10
	}

	return &requests.Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

func BuildCheckAccessRequest(r *http.Request) *requests.CheckAccess {
	query := r.URL.Query()
	return &requests.CheckAccess{
		UserID:     query.Get("user_id"),
		PatientID:  query.Get("patient_id"),
		AccessType: query.Get("access_type"),
		IPAddress:  ClientIP(r),
		UserAgent:  r.UserAgent(),
	}
}

func BuildAuditQueryRequest(r *http.Request) *requests.AuditQuery {
	query := r.URL.Query()
	pagination := BuildPaginationRequest(r)

	return &requests.AuditQuery{
		UserID:     query.Get("user_id"),
		PatientID:  query.Get("patient_id"),
		Outcome:    query.Get("outcome"),
		AccessType: query.Get("access_type"),
		From:       query.Get("from"),
		To:         query.Get("to"),
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	}
}

// ClientIP prefers the forwarding headers set by the edge proxy; audit
// entries should carry the caller address, not the proxy address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get(constvars.HeaderXForwardedFor); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get(constvars.HeaderXRealIP); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
