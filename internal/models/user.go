package models

// User represents a registered account holder.
type User struct {
	Base
	Username         string `gorm:"uniqueIndex;not null" json:"username"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Password         string `gorm:"not null" json:"-"`
	RefreshTokenHash string `gorm:"size:64" json:"-"`

	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}
