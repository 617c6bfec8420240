package eventtype

import (
	"github.com/tixera/tixera/internal/types"
)

// EventTypeNode is a single node of the event type taxonomy tree.
// Root nodes have a nil ParentID. The tree is read only during tax
// evaluation; it is loaded once per catalog snapshot.
type EventTypeNode struct {
	ID       string  `db:"id" json:"id"`
	Slug     string  `db:"slug" json:"slug"`
	Name     string  `db:"name" json:"name"`
	ParentID *string `db:"parent_id" json:"parent_id"`
	types.BaseModel
}
