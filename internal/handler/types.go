package handler

import (
	"time"

	"github.com/ecocycle/recycle-api/internal/domain"
)

// --- requests ---------------------------------------------------------------

type createReportRequest struct {
	SubmitterID string  `json:"submitterId" validate:"required,max=100"`
	Material    string  `json:"material" validate:"required,max=100"`
	WeightKg    float64 `json:"weightKg" validate:"gt=0"`
}

type createAuditRequest struct {
	ReportID  string `json:"reportId" validate:"required"`
	AuditorID string `json:"auditorId" validate:"required,max=100"`
	Audited   *bool  `json:"audited" validate:"required"`
	Comments  string `json:"comments" validate:"max=2000"`
}

// updateAuditRequest is a partial update; absent fields are left unchanged.
type updateAuditRequest struct {
	Audited  *bool   `json:"audited"`
	Comments *string `json:"comments" validate:"omitnil,max=2000"`
}

// --- responses --------------------------------------------------------------

type healthResponse struct {
	Status string `json:"status"`
}

type reportResponse struct {
	ID          string    `json:"id"`
	SubmitterID string    `json:"submitterId"`
	Material    string    `json:"material"`
	WeightKg    float64   `json:"weightKg"`
	Audited     bool      `json:"audited"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type auditResponse struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"reportId"`
	Audited   bool      `json:"audited"`
	AuditorID string    `json:"auditorId"`
	Comments  *string   `json:"comments,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type mintResponse struct {
	ReportID string `json:"reportId"`
	TxHash   string `json:"txHash"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type listResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

// --- mapping helpers --------------------------------------------------------

func reportToResponse(r domain.Report) reportResponse {
	return reportResponse{
		ID:          r.ID,
		SubmitterID: r.SubmitterID,
		Material:    r.Material,
		WeightKg:    r.WeightKg,
		Audited:     r.Audited,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func auditToResponse(a domain.Audit) auditResponse {
	resp := auditResponse{
		ID:        a.ID,
		ReportID:  a.ReportID,
		Audited:   a.Audited,
		AuditorID: a.AuditorID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Comments != "" {
		resp.Comments = &a.Comments
	}
	return resp
}

func toList[D, T any](page domain.Page[D], p domain.PaginationParams, conv func(D) T) listResponse[T] {
	data := make([]T, len(page.Items))
	for i, item := range page.Items {
		data[i] = conv(item)
	}
	return listResponse[T]{
		Data:       data,
		Pagination: pagination{Page: p.Page, Limit: p.Limit, Total: page.Total},
	}
}
