package db_models

type AdminStatus string

const (
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusApproved AdminStatus = "approved"
	AdminStatusRejected AdminStatus = "rejected"
)

func (s AdminStatus) Valid() bool {
	return s == AdminStatusPending || s == AdminStatusApproved || s == AdminStatusRejected
}

type Admin struct {
	BaseModel
	Name         string
	Email        string `gorm:"unique"`
	PasswordHash string
	FirebaseUID  string      `gorm:"index"`
	Role         string      `gorm:"size:16;default:admin"`
	Status       AdminStatus `gorm:"size:16;default:pending;index"`
}
