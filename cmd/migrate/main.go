package main

import (
	"context"
	"errors"
	"flag"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rbroggi/matchup/db"
	"github.com/rbroggi/matchup/internal/boot"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	down = flag.Bool("down", false, "run migration down")
)

func main() {
	flag.Parse()
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoDBURL))
	if err != nil {
		log.Fatalf("error opening db connection: %v", err)
	}
	defer client.Disconnect(ctx)

	driver, err := mongodb.WithInstance(client, &mongodb.Config{DatabaseName: config.MongoDBDatabase})
	if err != nil {
		log.Fatalf("error invoking withInstance: %v", err)
	}
	source, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		log.Fatalf("error reading embedded migrations: %v", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "mongodb", driver)
	if err != nil {
		log.Fatalf("NewWithInstance error: %v", err)
	}
	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("error migrating (down=%t): %v", *down, err)
	}
	log.WithField("database", config.MongoDBDatabase).WithField("down", *down).Info("migration done")
}
