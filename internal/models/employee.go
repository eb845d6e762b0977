package models

type Employee struct {
	EID         uint   `gorm:"primaryKey;column:e_id" json:"e_id"`
	Name        string `gorm:"size:50;not null" json:"name"`
	Email       string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Designation string `gorm:"size:50;not null" json:"designation"`
	MgrID       uint   `gorm:"not null" json:"mgr_id"`
}

func (Employee) TableName() string {
	return "employees"
}
