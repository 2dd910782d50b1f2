package models

import (
	"time"

	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

// ReportFilter selects the records a compliance report covers.
type ReportFilter struct {
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Office string `json:"office,omitempty"`
	Group  string `json:"group,omitempty"`
}

// Interval returns the half-open [start, end) range of the filter month in UTC.
func (f ReportFilter) Interval() (time.Time, time.Time) {
	start := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// RegionReplyStats is one region of the reply-language matrix.
type RegionReplyStats struct {
	ReceivedEnglish int `json:"receivedEnglish"`
	RepliedHindi    int `json:"repliedHindi"`
	RepliedEnglish  int `json:"repliedEnglish"`
	NotExpected     int `json:"notExpected"`
}

// RegionReplyMatrix holds every region explicitly so none can be absent.
type RegionReplyMatrix struct {
	A       RegionReplyStats `json:"A"`
	B       RegionReplyStats `json:"B"`
	C       RegionReplyStats `json:"C"`
	Unknown RegionReplyStats `json:"Unknown"`
}

// For returns the bucket for r.
func (m *RegionReplyMatrix) For(r region.Region) *RegionReplyStats {
	switch r {
	case region.A:
		return &m.A
	case region.B:
		return &m.B
	case region.C:
		return &m.C
	default:
		return &m.Unknown
	}
}

// RegionIssueStats is one region of the original-letters-issued section.
type RegionIssueStats struct {
	Hindi   int `json:"hindi"`
	English int `json:"english"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// RegionIssueMatrix holds every region explicitly so none can be absent.
type RegionIssueMatrix struct {
	A       RegionIssueStats `json:"A"`
	B       RegionIssueStats `json:"B"`
	C       RegionIssueStats `json:"C"`
	Unknown RegionIssueStats `json:"Unknown"`
}

// For returns the bucket for r.
func (m *RegionIssueMatrix) For(r region.Region) *RegionIssueStats {
	switch r {
	case region.A:
		return &m.A
	case region.B:
		return &m.B
	case region.C:
		return &m.C
	default:
		return &m.Unknown
	}
}

// EmailLanguageCounts is a received-email pair.
type EmailLanguageCounts struct {
	English int `json:"eng"`
	Hindi   int `json:"hin"`
}

// EmailReceivedMatrix covers the reported regions only.
type EmailReceivedMatrix struct {
	A EmailLanguageCounts `json:"A"`
	B EmailLanguageCounts `json:"B"`
	C EmailLanguageCounts `json:"C"`
}

// For returns the bucket for r, or nil when r is not reported.
func (m *EmailReceivedMatrix) For(r region.Region) *EmailLanguageCounts {
	switch r {
	case region.A:
		return &m.A
	case region.B:
		return &m.B
	case region.C:
		return &m.C
	default:
		return nil
	}
}

// EmailRepliedByRegion counts emails replied in Hindi.
type EmailRepliedByRegion struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
}

// For returns the counter for r, or nil when r is not reported.
func (m *EmailRepliedByRegion) For(r region.Region) *int {
	switch r {
	case region.A:
		return &m.A
	case region.B:
		return &m.B
	case region.C:
		return &m.C
	default:
		return nil
	}
}

// ReportSummary is the aggregated monthly compliance data.
type ReportSummary struct {
	LettersReceivedHindi int                  `json:"lettersReceivedHindi"`
	RepliesSentHindi     int                  `json:"repliesSentHindi"`
	RepliesSentEnglish   int                  `json:"repliesSentEnglish"`
	NotExpectedTotal     int                  `json:"notExpectedTotal"`
	InwardByRegion       RegionReplyMatrix    `json:"inwardByRegion"`
	Section3ByRegion     RegionIssueMatrix    `json:"section3ByRegion"`
	TotalInwards         int                  `json:"totalInwards"`
	TotalOutwards        int                  `json:"totalOutwards"`
	EmailReceived        EmailReceivedMatrix  `json:"emailReceived"`
	EmailReplied         EmailRepliedByRegion `json:"emailReplied"`
	NotingsHindi         int                  `json:"notingsHindi"`
	NotingsEnglish       int                  `json:"notingsEnglish"`
	NotingsEoffice       int                  `json:"notingsEoffice"`
	GroupName            string               `json:"groupName"`
	GroupHeadName        string               `json:"groupHeadName"`
}

// InwardTotals is the scalar inward aggregate.
type InwardTotals struct {
	Hindi       int `db:"hindi"`
	NotRequired int `db:"not_required"`
	Total       int `db:"total"`
}

// OutwardTotals is the scalar outward aggregate.
type OutwardTotals struct {
	RepliedHindi   int `db:"replied_hindi"`
	RepliedEnglish int `db:"replied_english"`
	Total          int `db:"total"`
}

// InwardRegionRow is one sender-region group of inward records.
type InwardRegionRow struct {
	Region             string `db:"region"`
	ReceivedEnglish    int    `db:"received_english"`
	NotExpected        int    `db:"not_expected"`
	HindiPlusBilingual int    `db:"hindi_bilingual"`
	English            int    `db:"english"`
}

// OutwardRegionRow is one receiver-region group of outward records.
type OutwardRegionRow struct {
	Region         string `db:"region"`
	RepliedHindi   int    `db:"replied_hindi"`
	RepliedEnglish int    `db:"replied_english"`
}

// EmailRegionRow is one (entry_type, region) sum of email counts.
type EmailRegionRow struct {
	EntryType    string `db:"entry_type"`
	Region       string `db:"region"`
	TotalEnglish int    `db:"total_english"`
	TotalHindi   int    `db:"total_hindi"`
}

// NotingsRow is one entry_type sum of notings counts.
type NotingsRow struct {
	EntryType       string `db:"entry_type"`
	HindiPages      int    `db:"hindi_pages"`
	EnglishPages    int    `db:"english_pages"`
	EofficeComments int    `db:"eoffice_comments"`
}

// GroupHead names the person signing a group's report.
type GroupHead struct {
	GroupName string `db:"group_name"`
	Name      string `db:"name"`
}
