package repository

import (
	"fmt"

	"gorm.io/gorm"

	"nobzo-blog/internal/model"
)

const postFullTextIndex = "idx_posts_fulltext"

// Migrate creates or updates every table the service owns. On MySQL it also
// adds the FULLTEXT index that backs post search.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.PostTag{}, &model.PostEvent{}); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}

	if db.Dialector.Name() != "mysql" {
		return nil
	}
	if db.Migrator().HasIndex(&model.Post{}, postFullTextIndex) {
		return nil
	}
	if err := db.Exec(fmt.Sprintf("CREATE FULLTEXT INDEX %s ON posts (title, content)", postFullTextIndex)).Error; err != nil {
		return fmt.Errorf("create fulltext index failed: %w", err)
	}
	return nil
}
