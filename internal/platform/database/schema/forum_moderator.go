package schema

// ForumModeratorTable represents the 'forum.moderator' junction table
type ForumModeratorTable struct {
	Table   string
	BoardID string
	UserID  string
}

// ForumModerator is the schema definition for forum.moderator
var ForumModerator = ForumModeratorTable{
	Table:   "forum.moderator",
	BoardID: "boardid",
	UserID:  "userid",
}
