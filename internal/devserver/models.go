package devserver

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account the server accepts bearer tokens for
type User struct {
	ID        string `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Token     string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// Media is one anime or manga of the catalog
type Media struct {
	ID       string `gorm:"primaryKey"`
	Type     string `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Year     int
	Episodes int
	Chapters int
	ImageURL string
}

// TableName overrides the default table name
func (Media) TableName() string {
	return "media"
}

// List is a user-owned ordered list. UpdatedAt is the version marker
// reorder requests are checked against, so it is only ever set
// explicitly.
type List struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	IsPublic    bool

	Items []ListItem `gorm:"foreignKey:ListID"`

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// ListItem places one catalog entry at a position of a list
type ListItem struct {
	ID       string `gorm:"primaryKey"`
	ListID   string `gorm:"not null;index;uniqueIndex:idx_list_items_media"`
	MediaID  string `gorm:"not null;uniqueIndex:idx_list_items_media"`
	Media    Media  `gorm:"foreignKey:MediaID"`
	Position int    `gorm:"not null"`
	Notes    string
	AddedAt  time.Time `gorm:"autoCreateTime"`
}

// Follow records a user subscribing to someone else's list
type Follow struct {
	ListID    string `gorm:"primaryKey"`
	UserID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// BeforeCreate hooks for GORM
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

func (l *List) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = nextVersion(time.Time{})
	}
	return nil
}

func (i *ListItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// nextVersion returns a version marker strictly after prev. Markers are
// kept at microsecond precision so they survive a postgres round trip.
func nextVersion(prev time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}
