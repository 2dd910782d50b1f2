package models

import (
	"time"

	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

// EmailEntryType distinguishes received from replied email counts.
type EmailEntryType string

const (
	EmailReceived EmailEntryType = "Received"
	EmailReplied  EmailEntryType = "Replied"
)

// NotingsEntryType distinguishes page notings from e-office comments.
type NotingsEntryType string

const (
	NotingsNoting  NotingsEntryType = "Noting"
	NotingsComment NotingsEntryType = "Comment"
)

// EmailCount is keyed by (group_name, month, year, entry_type, region).
type EmailCount struct {
	GroupName    string         `db:"group_name" json:"group_name"`
	Month        int            `db:"month" json:"month"`
	Year         int            `db:"year" json:"year"`
	EntryType    EmailEntryType `db:"entry_type" json:"entry_type"`
	Region       region.Region  `db:"region" json:"region"`
	TotalEnglish int            `db:"total_english" json:"total_english"`
	TotalHindi   int            `db:"total_hindi" json:"total_hindi"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// NotingsCount is keyed by (group_name, month, year, entry_type).
type NotingsCount struct {
	GroupName       string           `db:"group_name" json:"group_name"`
	Month           int              `db:"month" json:"month"`
	Year            int              `db:"year" json:"year"`
	EntryType       NotingsEntryType `db:"entry_type" json:"entry_type"`
	HindiPages      int              `db:"hindi_pages" json:"hindi_pages"`
	EnglishPages    int              `db:"english_pages" json:"english_pages"`
	EofficeComments int              `db:"eoffice_comments" json:"eoffice_comments"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// CounterPeriod selects counter rows for one month.
type CounterPeriod struct {
	Month int
	Year  int
	Group string
}
