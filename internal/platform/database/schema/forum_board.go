package schema

// ForumBoardTable represents the 'forum.board' table
type ForumBoardTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	Visible     string
	CreatedAt   string
	UpdatedAt   string
}

// ForumBoard is the schema definition for forum.board
var ForumBoard = ForumBoardTable{
	Table:       "forum.board",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Visible:     "isvisible",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t ForumBoardTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Description, t.Visible,
		t.CreatedAt, t.UpdatedAt,
	}
}
