package dto

import "github.com/noah-isme/rajbhasha-api/internal/models"

// ReportFilterRequest captures the month/office/group selection of the report screen.
type ReportFilterRequest struct {
	Month  int    `json:"month" validate:"required,min=1,max=12"`
	Year   int    `json:"year" validate:"required,min=1000,max=9999"`
	Office string `json:"office,omitempty" validate:"omitempty,max=100"`
	Group  string `json:"group,omitempty" validate:"omitempty,max=100"`
}

// Filter converts the request into a report filter.
func (r ReportFilterRequest) Filter() models.ReportFilter {
	return models.ReportFilter{Month: r.Month, Year: r.Year, Office: r.Office, Group: r.Group}
}

// ReportViewResponse is the rendered report fragment.
type ReportViewResponse struct {
	HTML     string `json:"html"`
	Filename string `json:"filename"`
}

// ReportRequest captures POST /admin/reports/generate payload.
type ReportRequest struct {
	Month  int                 `json:"month" validate:"required,min=1,max=12"`
	Year   int                 `json:"year" validate:"required,min=1000,max=9999"`
	Office string              `json:"office,omitempty" validate:"omitempty,max=100"`
	Group  string              `json:"group,omitempty" validate:"omitempty,max=100"`
	Format models.ReportFormat `json:"format" validate:"required,oneof=pdf csv"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
