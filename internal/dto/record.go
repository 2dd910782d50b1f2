package dto

// ReplyFields are the reply columns shared by the inward and outward forms.
type ReplyFields struct {
	ReplyRequired string `json:"reply_required" validate:"required,oneof=Yes No"`
	ReplySentDate string `json:"reply_sent_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReplyRefNo    string `json:"reply_ref_no,omitempty" validate:"omitempty,max=100"`
	ReplySentBy   string `json:"reply_sent_by,omitempty" validate:"omitempty,alphaspace,max=100"`
	ReplySentIn   string `json:"reply_sent_in,omitempty" validate:"omitempty,oneof=Hindi English Bilingual"`
	ReplyCount    *int   `json:"reply_count,omitempty" validate:"omitempty,min=0,max=9999"`
}

// InwardRequest is the inward register entry form.
type InwardRequest struct {
	DateOfReceipt   string `json:"date_of_receipt" validate:"required,datetime=2006-01-02"`
	Office          string `json:"office" validate:"required,max=100"`
	NameOfSender    string `json:"name_of_sender" validate:"required,personname,max=150"`
	AddressOfSender string `json:"address_of_sender" validate:"required,max=500"`
	SenderCity      string `json:"sender_city" validate:"required,alphaspace,max=100"`
	SenderState     string `json:"sender_state" validate:"required,max=100"`
	SenderPin       string `json:"sender_pin" validate:"required,pin"`
	SenderOrgType   string `json:"sender_org_type,omitempty" validate:"omitempty,max=100"`
	TypeOfDocument  string `json:"type_of_document" validate:"required,max=100"`
	OtherDocument   string `json:"other_document,omitempty" validate:"omitempty,max=100"`
	Language        string `json:"language_of_document" validate:"required,oneof=Hindi English Bilingual"`
	Count           int    `json:"count" validate:"min=0,max=9999"`
	Remarks         string `json:"remarks,omitempty" validate:"omitempty,max=1000"`
	Group           string `json:"group,omitempty" validate:"omitempty,max=100"`
	ReplyFields
}

// OutwardRequest is the outward register entry form. InwardNo links it to the
// inward letter it answers.
type OutwardRequest struct {
	DateOfDespatch    string `json:"date_of_despatch" validate:"required,datetime=2006-01-02"`
	Office            string `json:"office" validate:"required,max=100"`
	NameOfReceiver    string `json:"name_of_receiver" validate:"required,personname,max=150"`
	AddressOfReceiver string `json:"address_of_receiver" validate:"required,max=500"`
	ReceiverCity      string `json:"receiver_city" validate:"required,alphaspace,max=100"`
	ReceiverState     string `json:"receiver_state" validate:"required,max=100"`
	ReceiverPin       string `json:"receiver_pin" validate:"required,pin"`
	ReceiverOrgType   string `json:"receiver_org_type,omitempty" validate:"omitempty,max=100"`
	TypeOfDocument    string `json:"type_of_document" validate:"required,max=100"`
	OtherDocument     string `json:"other_document,omitempty" validate:"omitempty,max=100"`
	Language          string `json:"language_of_document" validate:"required,oneof=Hindi English Bilingual"`
	Count             int    `json:"count" validate:"min=0,max=9999"`
	Remarks           string `json:"remarks,omitempty" validate:"omitempty,max=1000"`
	ReplyIssuedBy     string `json:"reply_issued_by" validate:"required,alphaspace,max=100"`
	InwardNo          string `json:"inward_no,omitempty" validate:"omitempty,max=30"`
	Group             string `json:"group,omitempty" validate:"omitempty,max=100"`
	ReplyFields
}

// StatesResponse lists the states of each reported region.
type StatesResponse struct {
	A []string `json:"A"`
	B []string `json:"B"`
	C []string `json:"C"`
}
