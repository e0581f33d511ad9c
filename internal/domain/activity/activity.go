package activity

import (
	"time"
)

// Category represents the area of the portal an entry belongs to.
type Category string

const (
	CategoryAccount    Category = "account"
	CategoryMembers    Category = "members"
	CategoryRequests   Category = "requests"
	CategoryPrefecture Category = "prefecture"
	CategoryTreasury   Category = "treasury"
	CategoryPresidency Category = "presidency"
	CategoryAdmin      Category = "admin"
	CategorySecurity   Category = "security"
)

// Action represents the action that occurred.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
	ActionLogin   Action = "login"
	ActionLogout  Action = "logout"
	ActionInvite  Action = "invite"
	ActionGrant   Action = "grant"
	ActionRevoke  Action = "revoke"
)

// Entry is a single row of the admin activity log. The log is append-only;
// entries are never edited or deleted through the application.
type Entry struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Timestamp    time.Time `json:"timestamp"`
	Category     Category  `json:"category"`
	Action       Action    `json:"action"`
	ActorID      string    `json:"actor_id"`
	ActorEmail   string    `json:"actor_email"`
	ResourceID   string    `json:"resource_id"`
	ResourceType string    `json:"resource_type"`
	Description  string    `json:"description"`
	IPAddress    string    `json:"ip_address"`
}

// NewEntry creates a log entry stamped with the given time.
// PRE: ownerID and actorID are non-empty
// POST: Returns an Entry with the provided fields
func NewEntry(id, ownerID, actorID, actorEmail string, category Category, action Action, now time.Time) Entry {
	return Entry{
		ID:         id,
		OwnerID:    ownerID,
		Timestamp:  now,
		Category:   category,
		Action:     action,
		ActorID:    actorID,
		ActorEmail: actorEmail,
	}
}

// WithResource sets resource information.
// PRE: resourceType and resourceID are non-empty
// POST: Entry resource fields are populated
func (e Entry) WithResource(resourceType, resourceID string) Entry {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithDescription sets the entry description.
// PRE: description is non-empty
// POST: Entry description is set
func (e Entry) WithDescription(desc string) Entry {
	e.Description = desc
	return e
}

// WithIP records the actor's address.
// PRE: ipAddress is non-empty
// POST: Entry network field is populated
func (e Entry) WithIP(ipAddress string) Entry {
	e.IPAddress = ipAddress
	return e
}
