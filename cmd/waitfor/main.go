package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	url := flag.String("url", "mongodb://localhost:27017", "the mongodb url to wait for")
	attempts := flag.Int("attempts", 20, "how many times to try")
	timeout := 10 * time.Second

	flag.Parse()

	for i := 1; i <= *attempts; i++ {
		if err := ping(*url, timeout); err == nil {
			fmt.Printf("mongodb available on [%s]\n", *url)
			return
		} else {
			fmt.Printf("mongodb not yet available on [%s]: %v\n", *url, err)
		}
		time.Sleep(1 * time.Second)
	}
	log.Panicf("could not reach mongodb on [%s] after max attempts.", *url)
}

func ping(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url).SetServerSelectionTimeout(timeout))
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)
	return client.Ping(ctx, readpref.Primary())
}
