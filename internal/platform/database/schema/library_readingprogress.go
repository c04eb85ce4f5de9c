package schema

// LibraryReadingProgressTable represents the 'library.readingprogress' table
type LibraryReadingProgressTable struct {
	Table       string
	ID          string
	UserID      string
	BookID      string
	CurrentPage string
	TotalPages  string
	LastReadAt  string
}

// LibraryReadingProgress is the schema definition for library.readingprogress
var LibraryReadingProgress = LibraryReadingProgressTable{
	Table:       "library.readingprogress",
	ID:          "id",
	UserID:      "userid",
	BookID:      "bookid",
	CurrentPage: "currentpage",
	TotalPages:  "totalpages",
	LastReadAt:  "lastreadat",
}
