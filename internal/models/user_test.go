package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleSuperAdmin))
	assert.False(t, ValidRole(UserRole("owner")))
	assert.False(t, ValidRole(UserRole("")))
}

func TestUserIsAdminRole(t *testing.T) {
	assert.False(t, (&User{Role: RoleUser}).IsAdminRole())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdminRole())
	assert.True(t, (&User{Role: RoleSuperAdmin}).IsAdminRole())
}

func TestUserHasLiked(t *testing.T) {
	user := &User{LikedArts: []string{"a", "b"}}
	assert.True(t, user.HasLiked("a"))
	assert.False(t, user.HasLiked("c"))
	assert.False(t, (&User{}).HasLiked("a"))
}

func TestUserHasViewed(t *testing.T) {
	user := &User{ViewedArts: []ViewRecord{{ArtID: "a"}, {ArtID: "b"}}}
	assert.True(t, user.HasViewed("b"))
	assert.False(t, user.HasViewed("c"))
}

func TestBackfillActivity(t *testing.T) {
	user := &User{}
	user.BackfillActivity()
	assert.NotNil(t, user.LikedArts)
	assert.NotNil(t, user.DownloadedArts)
	assert.NotNil(t, user.ViewedArts)
	assert.Empty(t, user.LikedArts)

	// Existing data is left alone.
	user = &User{LikedArts: []string{"a"}}
	user.BackfillActivity()
	assert.Equal(t, []string{"a"}, user.LikedArts)
}
