package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryRef(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want CategoryRef
	}{
		{name: "plain label is primary", in: "Soups", want: PrimaryRef("Soups")},
		{name: "custom prefix is custom", in: "custom:abc", want: CustomRef("abc")},
		{name: "bare prefix stays primary", in: "custom:", want: PrimaryRef("custom:")},
		{name: "empty string is primary", in: "", want: PrimaryRef("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCategoryRef(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.in != "custom:" {
				assert.Equal(t, tt.in, got.String(), "String must round trip")
			}
		})
	}
}

func TestCustomCategoryClone(t *testing.T) {
	orig := CustomCategory{ID: "c1", Name: "Power Outage", ItemIDs: []string{"1", "2"}}
	cp := orig.Clone()
	cp.ItemIDs[0] = "9"

	assert.Equal(t, "1", orig.ItemIDs[0], "clone must not share the member slice")
}

func TestGroupLabelsAndCounts(t *testing.T) {
	items := []MenuItem{
		{ID: "1", IsAvailable: true},
		{ID: "2", IsAvailable: false},
	}

	primary := Group{Ref: PrimaryRef("Soups"), Label: "Soups", Items: items}
	custom := Group{Ref: CustomRef("c1"), Label: "Power Outage", Items: items[1:]}

	assert.False(t, primary.IsCustom())
	assert.Equal(t, "Soups", primary.DisplayLabel())
	assert.Equal(t, 1, primary.AvailableCount())
	assert.True(t, primary.HasAvailable())

	assert.True(t, custom.IsCustom())
	assert.Equal(t, CustomLabelPrefix+"Power Outage", custom.DisplayLabel())
	assert.Equal(t, 0, custom.AvailableCount())
	assert.False(t, custom.HasAvailable())
}

func TestNotifierFunc(t *testing.T) {
	var got []string
	var n Notifier = NotifierFunc(func(kind NotificationKind, title, description string) {
		got = append(got, string(kind), title, description)
	})
	n.Notify(NotifyError, "Save failed", "disk full")
	assert.Equal(t, []string{"error", "Save failed", "disk full"}, got)
}
