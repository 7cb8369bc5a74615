package root

import (
	"context"
	"database/sql"
	"strconv"

	"pomofriends/internal/engine"
	"pomofriends/internal/storage"
	pomosync "pomofriends/internal/sync"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}

	var opts []engine.ServiceOption
	settings := storage.NewSettingsRepo(db)
	if url, ok, err := settings.Get(ctx, storage.SettingSyncURL); err == nil && ok && url != "" {
		opts = append(opts, engine.WithReplicator(pomosync.NewHTTPReplicator(url)))
	}

	svc, err := engine.NewService(ctx, db, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if raw, ok, err := settings.Get(ctx, storage.SettingBatchSize); err == nil && ok {
		if n, err := strconv.Atoi(raw); err == nil {
			svc.Timer().SetBatchSize(n)
		}
	}
	return svc, cleanup, nil
}
