package models

import "testing"

func TestValidIcon(t *testing.T) {
	if !ValidIcon("fitness_center") {
		t.Error("fitness_center should be valid")
	}
	if ValidIcon("") {
		t.Error("empty id should be invalid")
	}
	if ValidIcon("sparkles") {
		t.Error("unknown id should be invalid")
	}
}

func TestNormalizeIcon(t *testing.T) {
	if got := NormalizeIcon("menu_book"); got != "menu_book" {
		t.Errorf("NormalizeIcon(menu_book) = %q", got)
	}
	if got := NormalizeIcon(""); got != DefaultIcon {
		t.Errorf("NormalizeIcon(empty) = %q, want %q", got, DefaultIcon)
	}
	if got := NormalizeIcon("no_such_icon"); got != DefaultIcon {
		t.Errorf("NormalizeIcon(unknown) = %q, want %q", got, DefaultIcon)
	}
}

func TestIconIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, ic := range Icons {
		if seen[ic.ID] {
			t.Errorf("duplicate icon id %s", ic.ID)
		}
		seen[ic.ID] = true
	}
	if !seen[DefaultIcon] {
		t.Errorf("default icon %s missing from icon set", DefaultIcon)
	}
}
