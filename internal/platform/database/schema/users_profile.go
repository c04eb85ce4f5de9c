package schema

// UserProfileTable represents the 'users.profile' table
type UserProfileTable struct {
	Table       string
	UserID      string
	Nickname    string
	RealName    string
	AvatarURL   string
	DateOfBirth string
	CreatedAt   string
	UpdatedAt   string
}

// UserProfile is the schema definition for users.profile
var UserProfile = UserProfileTable{
	Table:       "users.profile",
	UserID:      "userid",
	Nickname:    "nickname",
	RealName:    "realname",
	AvatarURL:   "avatarurl",
	DateOfBirth: "dateofbirth",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserProfileTable) Columns() []string {
	return []string{
		t.UserID, t.Nickname, t.RealName, t.AvatarURL, t.DateOfBirth, t.CreatedAt, t.UpdatedAt,
	}
}
