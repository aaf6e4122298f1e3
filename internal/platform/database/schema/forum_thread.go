package schema

// ForumThreadTable represents the 'forum.thread' table
type ForumThreadTable struct {
	Table     string
	ID        string
	BoardID   string
	CreatedBy string
	Locked    string
	Sticky    string
	Deleted   string
	ViewCount string
	CreatedAt string
	UpdatedAt string
}

// ForumThread is the schema definition for forum.thread
var ForumThread = ForumThreadTable{
	Table:     "forum.thread",
	ID:        "id",
	BoardID:   "boardid",
	CreatedBy: "createdby",
	Locked:    "islocked",
	Sticky:    "issticky",
	Deleted:   "isdeleted",
	ViewCount: "viewcount",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ForumThreadTable) Columns() []string {
	return []string{
		t.ID, t.BoardID, t.CreatedBy, t.Locked, t.Sticky, t.Deleted,
		t.ViewCount, t.CreatedAt, t.UpdatedAt,
	}
}
