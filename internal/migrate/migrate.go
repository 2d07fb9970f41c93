package migrate

import (
	"github.com/Truella/Framez/internal/like"
	"github.com/Truella/Framez/internal/post"
	"github.com/Truella/Framez/internal/saved"
	"github.com/Truella/Framez/internal/shared/db"
	"github.com/Truella/Framez/internal/user"
)

func Models() []any {
	return []any{
		&user.Profile{},
		&post.Post{},
		&like.PostLike{},
		&saved.SavedPost{},
	}
}

func AutoMigrateAll(store *db.Store) error {
	return store.Base.AutoMigrate(Models()...)
}
