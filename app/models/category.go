package models

import (
	"time"
)

const CategoryAll = "ALL"

type Category struct {
	Code       string  `gorm:"size:20;not null;primary_key" json:"code"`
	Name       string  `gorm:"size:100;not null" json:"name"`
	ParentCode *string `gorm:"size:20;index" json:"parent_code,omitempty"`
	SortOrder  int     `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c *Category) IsLarge() bool {
	return c.ParentCode == nil
}
