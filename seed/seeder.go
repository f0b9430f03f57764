package seed

import (
	"log"

	"VibeShared/models"

	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username: "steven",
		Email:    "steven@example.com",
		Password: "password",
	},
	{
		Username:  "martin",
		Email:     "luther@example.com",
		Password:  "password",
		IsPrivate: true,
	},
}

var posts = []models.Post{
	{
		Caption: "First post from the seed data",
	},
	{
		Caption: "A private account's post, only visible to approved followers",
	},
}

// Load wipes the core tables and installs a tiny fixture set: one public
// and one private user, one post each, and a mutual follow so the feed
// has something to show.
func Load(db *gorm.DB) {
	err := db.Migrator().DropTable(
		&models.Tip{},
		&models.Withdrawal{},
		&models.Wallet{},
		&models.Notification{},
		&models.Like{},
		&models.Comment{},
		&models.Post{},
		&models.Block{},
		&models.Follow{},
		&models.User{},
	)
	if err != nil {
		log.Fatalf("cannot drop tables: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Wallet{},
		&models.Tip{},
		&models.Withdrawal{},
	)
	if err != nil {
		log.Fatalf("cannot migrate tables: %v", err)
	}

	for i := range users {
		users[i].Prepare()
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("cannot seed users table: %v", err)
		}
		posts[i].AuthorID = users[i].ID
		posts[i].Prepare()
		if err := db.Create(&posts[i]).Error; err != nil {
			log.Fatalf("cannot seed posts table: %v", err)
		}
	}

	follows := []models.Follow{
		{FollowerID: users[0].ID, FollowedID: users[1].ID, Status: models.FollowStatusApproved},
		{FollowerID: users[1].ID, FollowedID: users[0].ID, Status: models.FollowStatusApproved},
	}
	for i := range follows {
		if err := db.Create(&follows[i]).Error; err != nil {
			log.Fatalf("cannot seed follows table: %v", err)
		}
	}
	if err := db.Model(&models.User{}).Where("id IN ?", []uint{users[0].ID, users[1].ID}).
		Updates(map[string]interface{}{"followers_count": 1, "following_count": 1}).Error; err != nil {
		log.Fatalf("cannot seed follow counters: %v", err)
	}

	for i := range users {
		if _, err := models.GetOrCreateWallet(db, users[i].ID); err != nil {
			log.Fatalf("cannot seed wallets table: %v", err)
		}
	}
}
