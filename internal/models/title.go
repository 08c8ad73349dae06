package models

// Title is a reviewable work. Deleting its category clears the reference
// instead of cascading; deleting the title cascades to its reviews.
type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Year        int       `gorm:"not null" json:"year"`
	Description string    `json:"description"`
	CategoryID  *uint     `json:"-"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category"`
	Genres      []Genre   `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE" json:"genre"`

	// Rating is the mean review score, computed at read time and never
	// persisted. nil (JSON null) when the title has no reviews; a rating
	// of 0 is not a possible value since scores start at 1.
	Rating *float64 `gorm:"-" json:"rating"`

	Reviews []Review `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE" json:"-"`
}
