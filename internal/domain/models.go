// Package domain contains the persistence-facing entities and the
// generated study material value types shared across services and
// handlers.
package domain

import "time"

// QAPair is a single generated question with its answer.
type QAPair struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// StudyKit is the structured study material produced for one syllabus.
// Slice fields may be empty but are never semantically optional; the
// HTTP layer substitutes empty slices before rendering.
type StudyKit struct {
	Summary         string   `json:"summary"`
	ShortQuestions  []QAPair `json:"short"`
	MediumQuestions []QAPair `json:"medium"`
	LongQuestions   []QAPair `json:"long"`
	PYQs            []QAPair `json:"pyq"`
	FAQs            []QAPair `json:"faq"`
}

// Empty reports whether the kit carries no usable material at all.
func (k StudyKit) Empty() bool {
	return k.Summary == "" &&
		len(k.ShortQuestions) == 0 &&
		len(k.MediumQuestions) == 0 &&
		len(k.LongQuestions) == 0 &&
		len(k.PYQs) == 0 &&
		len(k.FAQs) == 0
}

// Account is a registered user.
type Account struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Email        string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	ProfileImage string    `gorm:"size:256" json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName sets the table name for Account.
func (Account) TableName() string { return "accounts" }

// History is one saved study kit belonging to a user. Deletes are hard;
// there is no recycle bin for generated material.
type History struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);index;not null" json:"userId"`
	Topic     string    `gorm:"size:256;not null" json:"topic"`
	Subject   string    `gorm:"size:128;not null;default:General" json:"subject"`
	Questions StudyKit  `gorm:"type:text;serializer:json" json:"questions"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name for History.
func (History) TableName() string { return "histories" }
