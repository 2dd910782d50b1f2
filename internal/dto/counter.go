package dto

// NotingsCountRequest is the monthly notings form. Group is honoured for admins only.
type NotingsCountRequest struct {
	Month     int    `json:"month" validate:"required,min=1,max=12"`
	Year      int    `json:"year" validate:"required,min=1000,max=9999"`
	EntryType string `json:"entry_type" validate:"required,oneof=Noting Comment"`
	Hindi     int    `json:"hindi"`
	English   int    `json:"english"`
	Eoffice   int    `json:"eoffice"`
	Group     string `json:"group,omitempty" validate:"omitempty,max=100"`
}

// CounterPeriodRequest selects the counters saved for one month. Group is
// honoured for admins only; admins see every group when it is empty.
type CounterPeriodRequest struct {
	Month int    `form:"month" validate:"required,min=1,max=12"`
	Year  int    `form:"year" validate:"required,min=1000,max=9999"`
	Group string `form:"group" validate:"omitempty,max=100"`
}

// EmailCountRequest is the monthly email form. Group is honoured for admins only.
type EmailCountRequest struct {
	Month        int    `json:"month" validate:"required,min=1,max=12"`
	Year         int    `json:"year" validate:"required,min=1000,max=9999"`
	EntryType    string `json:"entry_type" validate:"required,oneof=Received Replied"`
	Region       string `json:"region" validate:"required,oneof=A B C"`
	TotalEnglish int    `json:"total_english"`
	TotalHindi   int    `json:"total_hindi"`
	Group        string `json:"group,omitempty" validate:"omitempty,max=100"`
}
