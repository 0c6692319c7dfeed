package model

// Category tags items. Root items use the global list; details use their
// contact's custom list.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// UnknownCategory is the display name of a type id no list defines.
const UnknownCategory = "Unknown"

// DefaultGlobalCategories is the global list used when nothing was persisted.
var DefaultGlobalCategories = []Category{
	{ID: "goal", Name: "Goals"},
	{ID: "project", Name: "Projects"},
	{ID: "task", Name: "Tasks"},
}

// DefaultDetailCategories is the template each contact's list starts from.
var DefaultDetailCategories = []Category{
	{ID: TypeEvents, Name: "Events"},
	{ID: TypeConnections, Name: "Connections"},
	{ID: TypeHistory, Name: "History"},
	{ID: "interest", Name: "Interests"},
	{ID: "likes", Name: "Likes"},
	{ID: "dislikes", Name: "Dislikes"},
	{ID: "notes", Name: "Notes"},
}

// IsReserved reports whether the category id is one of the undeletable
// detail sections.
func IsReserved(id string) bool {
	switch id {
	case TypeEvents, TypeConnections, TypeHistory:
		return true
	}
	return false
}

// CloneCategories copies a category list. A nil list stays nil.
func CloneCategories(cats []Category) []Category {
	if cats == nil {
		return nil
	}
	out := make([]Category, len(cats))
	copy(out, cats)
	return out
}

// FindCategory returns the category with the given id.
func FindCategory(cats []Category, id string) (Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// InteractionType is the channel a history entry was recorded over.
type InteractionType string

const (
	InteractionInPerson InteractionType = "in-person"
	InteractionText     InteractionType = "text"
	InteractionEmail    InteractionType = "email"
	InteractionVoice    InteractionType = "voice"
	InteractionVideo    InteractionType = "video"
)

// InteractionTypes lists every valid interaction in display order.
var InteractionTypes = []InteractionType{
	InteractionInPerson, InteractionText, InteractionEmail, InteractionVoice, InteractionVideo,
}

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the human-readable name, used as the default title of a quick log.
func (t InteractionType) Label() string {
	switch t {
	case InteractionInPerson:
		return "In Person"
	case InteractionText:
		return "Text"
	case InteractionEmail:
		return "Email"
	case InteractionVoice:
		return "Voice Call"
	case InteractionVideo:
		return "Video Call"
	}
	return "Interaction"
}
