package schema

// SocialReviewLikeTable represents the 'social.reviewlike' table
type SocialReviewLikeTable struct {
	Table     string
	ReviewID  string
	UserID    string
	CreatedAt string
}

// SocialReviewLike is the schema definition for social.reviewlike
var SocialReviewLike = SocialReviewLikeTable{
	Table:     "social.reviewlike",
	ReviewID:  "reviewid",
	UserID:    "userid",
	CreatedAt: "createdat",
}
