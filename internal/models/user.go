package models

import "time"

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

// ValidRole reports whether role is one of the known role values.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// DownloadRecord is appended to a user's download log on every download.
// Repeat downloads produce repeat records.
type DownloadRecord struct {
	ArtID        string    `firestore:"artId" json:"art_id"`
	DownloadedAt time.Time `firestore:"downloadedAt" json:"downloaded_at"`
}

// ViewRecord is appended to a user's view log on the first view of an art
// piece. Insertion is deduplicated by art id.
type ViewRecord struct {
	ArtID    string    `firestore:"artId" json:"art_id"`
	ViewedAt time.Time `firestore:"viewedAt" json:"viewed_at"`
}

// User is a document in the users collection, keyed by the
// identity-provider uid. Activity fields may be absent on documents
// created before activity tracking existed; readers default them to empty.
type User struct {
	UID         string    `firestore:"uid" json:"uid"`
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName" json:"display_name"`
	PhotoURL    string    `firestore:"photoURL,omitempty" json:"photo_url,omitempty"`
	Role        UserRole  `firestore:"role" json:"role"`
	IsActive    bool      `firestore:"isActive" json:"is_active"`
	CreatedAt   time.Time `firestore:"createdAt" json:"created_at"`
	LastLoginAt time.Time `firestore:"lastLoginAt" json:"last_login_at"`

	LikedArts      []string         `firestore:"likedArts" json:"liked_arts"`
	DownloadedArts []DownloadRecord `firestore:"downloadedArts" json:"downloaded_arts"`
	ViewedArts     []ViewRecord     `firestore:"viewedArts" json:"viewed_arts"`
}

// IsAdminRole reports whether the user carries admin capability.
func (u *User) IsAdminRole() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// HasLiked reports whether artID is in the user's liked set.
func (u *User) HasLiked(artID string) bool {
	for _, id := range u.LikedArts {
		if id == artID {
			return true
		}
	}
	return false
}

// HasViewed reports whether a view record for artID already exists.
func (u *User) HasViewed(artID string) bool {
	for _, r := range u.ViewedArts {
		if r.ArtID == artID {
			return true
		}
	}
	return false
}

// BackfillActivity replaces absent activity arrays with empty ones so
// legacy documents behave like current ones.
func (u *User) BackfillActivity() {
	if u.LikedArts == nil {
		u.LikedArts = []string{}
	}
	if u.DownloadedArts == nil {
		u.DownloadedArts = []DownloadRecord{}
	}
	if u.ViewedArts == nil {
		u.ViewedArts = []ViewRecord{}
	}
}
