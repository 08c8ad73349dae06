package models

import "time"

// Authored is the field set shared by reviews and comments: body text, the
// writing user, and an immutable publication timestamp. Embedded (composed,
// not inherited) into both models.
type Authored struct {
	Text     string    `gorm:"not null" json:"text"`
	AuthorID uint      `gorm:"not null" json:"-"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	PubDate  time.Time `gorm:"not null;autoCreateTime" json:"pub_date"`
}

// Review is a scored write-up of a title.
//
// The composite unique index on (author_id, title_id) is the authoritative
// guard against duplicate reviews: concurrent identical create requests
// resolve at the database, not in application code.
type Review struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	Authored `gorm:"embedded"`
	Score    int  `gorm:"not null" json:"score"`
	TitleID  uint `gorm:"not null;index" json:"-"`

	Comments []Comment `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
}

// Comment is a reply attached to a review.
type Comment struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	Authored `gorm:"embedded"`
	ReviewID uint `gorm:"not null;index" json:"-"`
}

// Score bounds for reviews.
const (
	MinScore = 1
	MaxScore = 10
)
