package schema

// ForumPostTable represents the 'forum.post' table
type ForumPostTable struct {
	Table     string
	ID        string
	ThreadID  string
	UserID    string
	Title     string
	Body      string
	Deleted   string
	FirstPost string
	CreatedAt string
	UpdatedAt string
}

// ForumPost is the schema definition for forum.post
var ForumPost = ForumPostTable{
	Table:     "forum.post",
	ID:        "id",
	ThreadID:  "threadid",
	UserID:    "userid",
	Title:     "title",
	Body:      "body",
	Deleted:   "isdeleted",
	FirstPost: "isfirstpost",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ForumPostTable) Columns() []string {
	return []string{
		t.ID, t.ThreadID, t.UserID, t.Title, t.Body, t.Deleted,
		t.FirstPost, t.CreatedAt, t.UpdatedAt,
	}
}
