package trackerdb

import (
	"context"
	"log"

	mghelper "github.com/chainsafe/bridge-tracker/pkg/pgutil/migrations"
	"github.com/chainsafe/bridge-tracker/pkg/trackstore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating tracked_messages table...")
		if err := mghelper.CreateSchema(ctx, db, &trackstore.TrackedMessageDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &trackstore.TrackedMessageDao{}, "status", "finished_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping tracked_messages table...")
		return mghelper.DropTables(ctx, db, &trackstore.TrackedMessageDao{})
	})
}
