package model

// Gender tags; the empty string means unspecified
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// ValidGender reports whether g is an accepted gender tag (or empty)
func ValidGender(g string) bool {
	return g == "" || g == GenderMale || g == GenderFemale
}

// User users table
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	FullName     string `gorm:"type:varchar(100);not null"                     json:"full_name"`
	ClassYear    int    `gorm:"not null"                                       json:"class_year"`
	Gender       string `gorm:"type:varchar(10);not null;default:''"           json:"gender,omitempty"`
	IsRoomListed bool   `gorm:"not null;default:false"                         json:"is_room_listed"`
	BaseModel

	// associations
	Room *Room `gorm:"foreignKey:OwnerID;references:UserID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }
