package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"top level page", "Inbox", nil},
		{"nested page", "Projects:Home:Renovation", nil},
		{"segment with spaces", "Projects:New Kitchen", nil},
		{"empty path", "", ErrInvalidPath},
		{"leading separator", ":Inbox", ErrInvalidPath},
		{"trailing separator", "Inbox:", ErrInvalidPath},
		{"empty segment", "Projects::Home", ErrInvalidPath},
		{"hidden segment", "Projects:.hidden", ErrInvalidPath},
		{"reserved segment", "Projects:+attic", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "Projects:Home", ParentPath("Projects:Home:Renovation"))
	assert.Equal(t, "", ParentPath("Inbox"))

	assert.Equal(t, "Renovation", Basename("Projects:Home:Renovation"))
	assert.Equal(t, "Inbox", Basename("Inbox"))

	assert.True(t, IsAncestorOf("Projects", "Projects:Home"))
	assert.True(t, IsAncestorOf("", "Projects"))
	assert.False(t, IsAncestorOf("Projects", "Projects"))
	assert.False(t, IsAncestorOf("Projects:Home", "Projects"))
	// Prefix match must respect segment boundaries.
	assert.False(t, IsAncestorOf("Pro", "Projects:Home"))
}

func TestPageDisplayTitle(t *testing.T) {
	p := &Page{Path: "Projects:Home:Renovation"}
	assert.Equal(t, "Renovation", p.DisplayTitle())

	p.Title = "Kitchen Renovation"
	assert.Equal(t, "Kitchen Renovation", p.DisplayTitle())
}

func TestPageRename(t *testing.T) {
	p := &Page{Path: "Projects:Old"}

	require.NoError(t, p.Rename("Archive:Old"))
	assert.Equal(t, "Archive:Old", p.Path)
	assert.False(t, p.UpdatedAt.IsZero())

	assert.ErrorIs(t, p.Rename("bad::path"), ErrInvalidPath)
	assert.Equal(t, "Archive:Old", p.Path)
}
