package model

// NoticeVariant controls how a notice is presented to the user
type NoticeVariant string

const (
	NoticeDefault     NoticeVariant = "default"
	NoticeDestructive NoticeVariant = "destructive"
)

// Notice is a short user-facing message pushed to the notification observer
type Notice struct {
	Title       string
	Description string
	Variant     NoticeVariant
	OrderID     OrderID // zero when the notice is not about a specific order
}
