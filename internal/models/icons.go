package models

// DefaultIcon is used whenever a habit carries an unknown or empty icon
// identifier, so stale backups can never break rendering.
const DefaultIcon = "favorite"

// Icon pairs a Material icon identifier with a display label.
type Icon struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Icons is the fixed icon set collaborators may assign to habits.
var Icons = []Icon{
	{ID: "fitness_center", Name: "Exercise"},
	{ID: "directions_run", Name: "Running"},
	{ID: "local_drink", Name: "Water"},
	{ID: "favorite", Name: "Health"},
	{ID: "self_improvement", Name: "Yoga"},
	{ID: "medication", Name: "Medicine"},
	{ID: "menu_book", Name: "Reading"},
	{ID: "psychology", Name: "Learning"},
	{ID: "spa", Name: "Meditation"},
	{ID: "edit_note", Name: "Journaling"},
	{ID: "bedtime", Name: "Sleep"},
	{ID: "wb_sunny", Name: "Morning"},
	{ID: "local_cafe", Name: "Coffee"},
	{ID: "cleaning_services", Name: "Cleaning"},
	{ID: "attach_money", Name: "Finance"},
	{ID: "work", Name: "Work"},
	{ID: "library_music", Name: "Music"},
	{ID: "palette", Name: "Art"},
	{ID: "restaurant", Name: "Cooking"},
	{ID: "eco", Name: "Gardening"},
	{ID: "phone_disabled", Name: "Phone Limit"},
	{ID: "groups", Name: "Socializing"},
	{ID: "church", Name: "Prayer"},
	{ID: "pets", Name: "Pets"},
}

var iconIDs = func() map[string]bool {
	m := make(map[string]bool, len(Icons))
	for _, ic := range Icons {
		m[ic.ID] = true
	}
	return m
}()

// ValidIcon reports whether id belongs to the fixed icon set.
func ValidIcon(id string) bool {
	return iconIDs[id]
}

// NormalizeIcon maps unknown or empty identifiers to DefaultIcon.
func NormalizeIcon(id string) string {
	if ValidIcon(id) {
		return id
	}
	return DefaultIcon
}
