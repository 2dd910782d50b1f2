package models

import (
	"time"

	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

// Language enumerates document languages.
type Language string

const (
	LanguageHindi     Language = "Hindi"
	LanguageEnglish   Language = "English"
	LanguageBilingual Language = "Bilingual"
)

// Valid reports whether l is one of the recognised languages.
func (l Language) Valid() bool {
	return l == LanguageHindi || l == LanguageEnglish || l == LanguageBilingual
}

const (
	ReplyRequiredYes = "Yes"
	ReplyRequiredNo  = "No"
)

// Standard document types. Anything else is stored as free text.
const (
	DocumentTypeLetter = "Letter"
	DocumentTypeBill   = "Bill"
	DocumentTypeOther  = "Other Document"
)

// ReplyMetadata is shared by inward and outward rows.
type ReplyMetadata struct {
	ReplyRequired string     `db:"reply_required" json:"reply_required"`
	ReplySentDate *time.Time `db:"reply_sent_date" json:"reply_sent_date,omitempty"`
	ReplyRefNo    *string    `db:"reply_ref_no" json:"reply_ref_no,omitempty"`
	ReplySentBy   *string    `db:"reply_sent_by" json:"reply_sent_by,omitempty"`
	ReplySentIn   *string    `db:"reply_sent_in" json:"reply_sent_in,omitempty"`
	ReplyCount    *int       `db:"reply_count" json:"reply_count,omitempty"`
}

// InwardRecord is a received document.
type InwardRecord struct {
	SNo             int64         `db:"s_no" json:"s_no"`
	InwardNo        string        `db:"inward_no" json:"inward_no"`
	DateOfReceipt   time.Time     `db:"date_of_receipt" json:"date_of_receipt"`
	Office          string        `db:"office" json:"office"`
	GroupName       string        `db:"group_name" json:"group_name"`
	NameOfSender    string        `db:"name_of_sender" json:"name_of_sender"`
	AddressOfSender string        `db:"address_of_sender" json:"address_of_sender"`
	SenderCity      string        `db:"sender_city" json:"sender_city"`
	SenderState     string        `db:"sender_state" json:"sender_state"`
	SenderPin       string        `db:"sender_pin" json:"sender_pin"`
	SenderRegion    region.Region `db:"sender_region" json:"sender_region"`
	SenderOrgType   string        `db:"sender_org_type" json:"sender_org_type"`
	TypeOfDocument  string        `db:"type_of_document" json:"type_of_document"`
	Language        Language      `db:"language_of_document" json:"language_of_document"`
	Count           int           `db:"count" json:"count"`
	Remarks         string        `db:"remarks" json:"remarks"`
	ReplyMetadata
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OutwardRecord is a sent document, optionally answering an inward one.
type OutwardRecord struct {
	SNo               int64         `db:"s_no" json:"s_no"`
	OutwardNo         string        `db:"outward_no" json:"outward_no"`
	DateOfDespatch    time.Time     `db:"date_of_despatch" json:"date_of_despatch"`
	Office            string        `db:"office" json:"office"`
	GroupName         string        `db:"group_name" json:"group_name"`
	NameOfReceiver    string        `db:"name_of_receiver" json:"name_of_receiver"`
	AddressOfReceiver string        `db:"address_of_receiver" json:"address_of_receiver"`
	ReceiverCity      string        `db:"receiver_city" json:"receiver_city"`
	ReceiverState     string        `db:"receiver_state" json:"receiver_state"`
	ReceiverPin       string        `db:"receiver_pin" json:"receiver_pin"`
	ReceiverRegion    region.Region `db:"receiver_region" json:"receiver_region"`
	ReceiverOrgType   string        `db:"receiver_org_type" json:"receiver_org_type"`
	TypeOfDocument    string        `db:"type_of_document" json:"type_of_document"`
	// Language is the language the outward letter itself is issued in.
	Language Language `db:"language_of_document" json:"language_of_document"`
	// OriginalLanguage is the language of the inward letter being answered.
	OriginalLanguage *Language `db:"original_language" json:"original_language,omitempty"`
	Count            int       `db:"count" json:"count"`
	Remarks          string    `db:"remarks" json:"remarks"`
	ReplyMetadata
	ReplyIssuedBy string    `db:"reply_issued_by" json:"reply_issued_by"`
	InwardNo      *string   `db:"inward_no" json:"inward_no,omitempty"`
	InwardSNo     *int64    `db:"inward_s_no" json:"inward_s_no,omitempty"`
	CreatedBy     string    `db:"created_by" json:"created_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// InwardReplySync is the reply metadata copied onto an inward row once an
// outward answers it. An answered letter always counts as reply required.
type InwardReplySync struct {
	InwardSNo     int64
	ReplyRequired string
	ReplySentDate time.Time
	ReplyRefNo    string
	ReplySentBy   string
	ReplySentIn   Language
	ReplyCount    int
}

// RecordScope restricts record listings to a group. Empty means all groups.
type RecordScope struct {
	Group string
	Limit int
}
