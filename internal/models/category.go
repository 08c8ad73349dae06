package models

// Category groups titles by kind of work (books, films, music, ...).
// Slug is the public identifier used in URLs and title payloads.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"size:256;not null" json:"name"`
	Slug string `gorm:"size:50;unique;not null" json:"slug"`
}

// Genre tags titles across categories. Same shape as Category but an
// independent table with a many-to-many association to titles.
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"size:256;not null" json:"name"`
	Slug string `gorm:"size:50;unique;not null" json:"slug"`
}
