package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/export"
	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

const reportTitle = "Monthly data for Quarterly Report for Hindi Rajbhasha"

// RenderedReport is a rendered compliance report ready for display or export.
type RenderedReport struct {
	Filter   models.ReportFilter `json:"filter"`
	Document *export.Document    `json:"document"`
	HTML     string              `json:"html"`
	Filename string              `json:"filename"`
}

// ReportRenderer turns a summary into the fixed report layout.
type ReportRenderer struct {
	html *export.HTMLRenderer
}

// NewReportRenderer constructs a renderer.
func NewReportRenderer(html *export.HTMLRenderer) *ReportRenderer {
	if html == nil {
		html = export.NewHTMLRenderer()
	}
	return &ReportRenderer{html: html}
}

// Render builds the report document and its HTML fragment.
func (r *ReportRenderer) Render(summary *models.ReportSummary, filter models.ReportFilter) (*RenderedReport, error) {
	if summary == nil {
		summary = &models.ReportSummary{}
	}
	doc := BuildReportDocument(summary, filter)
	fragment, err := r.html.RenderFragment(doc)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render report")
	}
	return &RenderedReport{
		Filter:   filter,
		Document: doc,
		HTML:     fragment,
		Filename: ReportFilename(filter, "pdf"),
	}, nil
}

// ReportFilename names an export such as Rajbhasha_Report_Mar_2024.pdf.
func ReportFilename(filter models.ReportFilter, ext string) string {
	month := "Unknown"
	if filter.Month >= 1 && filter.Month <= 12 {
		month = time.Month(filter.Month).String()[:3]
	}
	return fmt.Sprintf("Rajbhasha_Report_%s_%d.%s", month, filter.Year, ext)
}

// BuildReportDocument lays out the six report sections in print order.
func BuildReportDocument(s *models.ReportSummary, filter models.ReportFilter) *export.Document {
	office := filter.Office
	if office == "" {
		office = "All Offices"
	}
	group := filter.Group
	if group == "" {
		group = "All Groups"
	}

	doc := &export.Document{
		Title: reportTitle,
		Meta: []export.Field{
			{Label: "Month / Year :", Value: fmt.Sprintf("%d / %d", filter.Month, filter.Year)},
			{Label: "Office:", Value: office},
		},
		Footer: []export.Field{
			{Label: "Group Name:", Value: group},
			{Label: "Group Head Name:", Value: s.GroupHeadName},
			{Label: "Signature:", Value: "__________________________"},
		},
	}

	doc.Sections = append(doc.Sections, export.Section{
		Title: "1. Letters received in Hindi (Official Language Rule - 5)",
		Tables: []export.Table{export.KeyValueTable("",
			export.Field{Label: "Total letters received in Hindi", Value: itoa(s.LettersReceivedHindi)},
			export.Field{Label: "No. of letters not to be replied to", Value: itoa(s.NotExpectedTotal)},
			export.Field{Label: "Replied in Hindi", Value: itoa(s.RepliesSentHindi)},
			export.Field{Label: "Replied in English", Value: itoa(s.RepliesSentEnglish)},
		)},
	})

	replies := export.Section{Title: "2. Letters received in English but replied in Hindi"}
	issued := export.Section{Title: "3. Details of original letters issued"}
	emailReceived := export.Table{Columns: []string{"Region", "English", "Hindi"}}
	emailReplied := export.Table{Columns: []string{"Region", "Nos"}}

	for _, r := range region.Reported() {
		stats := s.InwardByRegion.For(r)
		replies.Tables = append(replies.Tables, export.KeyValueTable(fmt.Sprintf("From Region '%s'", r),
			export.Field{Label: "Letters received in English", Value: itoa(stats.ReceivedEnglish)},
			export.Field{Label: "Replied in Hindi", Value: itoa(stats.RepliedHindi)},
			export.Field{Label: "Replied in English", Value: itoa(stats.RepliedEnglish)},
			export.Field{Label: "Not expected to be replied", Value: itoa(stats.NotExpected)},
		))

		issue := s.Section3ByRegion.For(r)
		issued.Tables = append(issued.Tables, export.KeyValueTable(fmt.Sprintf("To Region '%s'", r),
			export.Field{Label: "Issued in Hindi/Bilingual", Value: itoa(issue.Hindi)},
			export.Field{Label: "Issued in English", Value: itoa(issue.English)},
			export.Field{Label: "Total issued", Value: itoa(issue.Total)},
			export.Field{Label: "Percentage Hindi/Bilingual", Value: itoa(issue.Percent) + "%"},
		))

		var eng, hin int
		if counts := s.EmailReceived.For(r); counts != nil {
			eng, hin = counts.English, counts.Hindi
		}
		emailReceived.Rows = append(emailReceived.Rows, []string{string(r), itoa(eng), itoa(hin)})

		var replied int
		if n := s.EmailReplied.For(r); n != nil {
			replied = *n
		}
		emailReplied.Rows = append(emailReplied.Rows, []string{string(r), itoa(replied)})
	}
	doc.Sections = append(doc.Sections, replies, issued)

	doc.Sections = append(doc.Sections, export.Section{
		Title: "4. Notings on files/documents (during quarter)",
		Tables: []export.Table{export.KeyValueTable("",
			export.Field{Label: "Notings in Hindi (pages)", Value: itoa(s.NotingsHindi)},
			export.Field{Label: "Notings in English (pages)", Value: itoa(s.NotingsEnglish)},
			export.Field{Label: "Total Notings", Value: itoa(s.NotingsHindi + s.NotingsEnglish)},
			export.Field{Label: "Comments sent through e-office", Value: itoa(s.NotingsEoffice)},
		)},
	})
	doc.Sections = append(doc.Sections,
		export.Section{Title: "5. Emails received", Tables: []export.Table{emailReceived}},
		export.Section{Title: "6. Emails replied in Hindi", Tables: []export.Table{emailReplied}},
	)
	return doc
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
