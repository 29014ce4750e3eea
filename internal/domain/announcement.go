package domain

import "time"

// Announcement is a notice broadcast to residents.
type Announcement struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	ReadCount int       `json:"readCount"`
	UserCount int       `json:"userCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a Announcement) RecordID() string { return a.ID }

func (a Announcement) StatusLabel(time.Time) string { return withStatus(a.Priority, "medium") }

func (a Announcement) SearchFields() []string { return []string{a.Title, a.Message, a.Type} }

func (a Announcement) Actions(time.Time) []Action { return []Action{ActionDelete} }

// AnnouncementInput is the body of an announcement create.
type AnnouncementInput struct {
	Title    string `json:"title" form:"title" validate:"required,max=200"`
	Message  string `json:"message" form:"message" validate:"required,max=5000"`
	Type     string `json:"type" form:"type" validate:"required,oneof=announcement maintenance security"`
	Priority string `json:"priority" form:"priority" validate:"required,oneof=low medium high urgent"`
}
