package schema

// AdminAccessRequestTable represents the 'admin.accessrequest' table
type AdminAccessRequestTable struct {
	Table     string
	ID        string
	UserID    string
	Message   string
	Status    string
	DecidedBy string
	DecidedAt string
	CreatedAt string
}

// AdminAccessRequest is the schema definition for admin.accessrequest
var AdminAccessRequest = AdminAccessRequestTable{
	Table:     "admin.accessrequest",
	ID:        "id",
	UserID:    "userid",
	Message:   "message",
	Status:    "status",
	DecidedBy: "decidedby",
	DecidedAt: "decidedat",
	CreatedAt: "createdat",
}
