package schema

// CoreBookTable represents the 'core.book' table
type CoreBookTable struct {
	Table       string
	ID          string
	Title       string
	Author      string
	Slug        string
	Description string
	Genre       string
	CoverURL    string
	DocumentURL string
	PageCount   string
	SeriesName  string
	SeriesOrder string
	Status      string
	UploaderID  string
	PublishedAt string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// CoreBook is the schema definition for core.book
var CoreBook = CoreBookTable{
	Table:       "core.book",
	ID:          "id",
	Title:       "title",
	Author:      "author",
	Slug:        "slug",
	Description: "description",
	Genre:       "genre",
	CoverURL:    "coverurl",
	DocumentURL: "documenturl",
	PageCount:   "pagecount",
	SeriesName:  "seriesname",
	SeriesOrder: "seriesorder",
	Status:      "status",
	UploaderID:  "uploaderid",
	PublishedAt: "publishedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t CoreBookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Author, t.Slug, t.Description, t.Genre, t.CoverURL,
		t.DocumentURL, t.PageCount, t.SeriesName, t.SeriesOrder, t.Status,
		t.UploaderID, t.PublishedAt, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
