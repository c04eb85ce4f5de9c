package schema

// SocialReviewFlagTable represents the 'social.reviewflag' table
type SocialReviewFlagTable struct {
	Table     string
	ID        string
	ReviewID  string
	UserID    string
	Reason    string
	Status    string
	CreatedAt string
}

// SocialReviewFlag is the schema definition for social.reviewflag
var SocialReviewFlag = SocialReviewFlagTable{
	Table:     "social.reviewflag",
	ID:        "id",
	ReviewID:  "reviewid",
	UserID:    "userid",
	Reason:    "reason",
	Status:    "status",
	CreatedAt: "createdat",
}
