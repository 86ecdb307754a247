package models

// Link maps a short code to its destination URL. A link is either live in
// the store or absent; there is no soft delete and no expiry. ID and
// ShortCode never change after insert, LongURL may be replaced.
type Link struct {
	ID        uint64 `json:"id" gorm:"primaryKey"`
	LongURL   string `json:"long_url" gorm:"column:long_url;type:text;not null"`
	ShortCode string `json:"short_code" gorm:"column:short_code;type:varchar(16);uniqueIndex;not null"`
}

func (Link) TableName() string {
	return "urls"
}
