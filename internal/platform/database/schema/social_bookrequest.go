package schema

// SocialBookRequestTable represents the 'social.bookrequest' table
type SocialBookRequestTable struct {
	Table     string
	ID        string
	UserID    string
	Title     string
	Author    string
	Note      string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// SocialBookRequest is the schema definition for social.bookrequest
var SocialBookRequest = SocialBookRequestTable{
	Table:     "social.bookrequest",
	ID:        "id",
	UserID:    "userid",
	Title:     "title",
	Author:    "author",
	Note:      "note",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t SocialBookRequestTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Title, t.Author, t.Note, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
