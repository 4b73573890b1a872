package devserver

import (
	"fmt"

	"gorm.io/gorm"
)

// catalog is the media the server knows about
var catalog = []Media{
	{ID: "cowboy-bebop", Type: "anime", Title: "Cowboy Bebop", Year: 1998, Episodes: 26},
	{ID: "fullmetal-alchemist-brotherhood", Type: "anime", Title: "Fullmetal Alchemist: Brotherhood", Year: 2009, Episodes: 64},
	{ID: "steins-gate", Type: "anime", Title: "Steins;Gate", Year: 2011, Episodes: 24},
	{ID: "mushishi", Type: "anime", Title: "Mushishi", Year: 2005, Episodes: 26},
	{ID: "frieren", Type: "anime", Title: "Frieren: Beyond Journey's End", Year: 2023, Episodes: 28},
	{ID: "monster-anime", Type: "anime", Title: "Monster", Year: 2004, Episodes: 74},
	{ID: "mob-psycho-100", Type: "anime", Title: "Mob Psycho 100", Year: 2016, Episodes: 12},
	{ID: "berserk", Type: "manga", Title: "Berserk", Year: 1989, Chapters: 374},
	{ID: "vagabond", Type: "manga", Title: "Vagabond", Year: 1998, Chapters: 327},
	{ID: "monster-manga", Type: "manga", Title: "Monster", Year: 1994, Chapters: 162},
	{ID: "yotsuba", Type: "manga", Title: "Yotsuba&!", Year: 2003, Chapters: 117},
	{ID: "oyasumi-punpun", Type: "manga", Title: "Oyasumi Punpun", Year: 2007, Chapters: 147},
}

// Seed fills an empty database with the media catalog, a demo user
// authenticated by devToken and a second user owning a public list.
func Seed(db *gorm.DB, devToken string) error {
	var users int64
	if err := db.Model(&User{}).Count(&users).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if users > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&catalog).Error; err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}

		demo := &User{Username: "demo", Token: devToken}
		rival := &User{Username: "rival", Token: devToken + "-rival"}
		if err := tx.Create(demo).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		if err := tx.Create(rival).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		if err := seedList(tx, demo.ID, "All-time favourites", true,
			"cowboy-bebop", "fullmetal-alchemist-brotherhood", "steins-gate", "mushishi", "frieren"); err != nil {
			return err
		}
		return seedList(tx, rival.ID, "Manga to read before you die", true,
			"berserk", "vagabond", "monster-manga", "oyasumi-punpun")
	})
}

func seedList(tx *gorm.DB, ownerID, name string, isPublic bool, mediaIDs ...string) error {
	list := &List{OwnerID: ownerID, Name: name, IsPublic: isPublic}
	for i, id := range mediaIDs {
		list.Items = append(list.Items, ListItem{MediaID: id, Position: i})
	}
	if err := tx.Create(list).Error; err != nil {
		return fmt.Errorf("failed to seed list %q: %w", name, err)
	}
	return nil
}
