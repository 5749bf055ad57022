package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/rbroggi/matchup/internal/boot"
	log "github.com/sirupsen/logrus"
)

// Creates the chat relay topic and subscriptions. Without arguments it uses the configured
// project, topic and subscription; otherwise the argument follows the pattern
// PROJECTID,TOPIC1:SUBSCRIPTION11:SUBSCRIPTION12,TOPIC2:SUBSCRIPTION21
func main() {
	arg, err := setupArg(os.Args[1:])
	if err != nil {
		log.Fatalf("error building setup: %v", err)
	}
	items := strings.Split(arg, ",")
	projectID := strings.ReplaceAll(items[0], " ", "")
	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Panicf("Unable to create client to project %q: %s", projectID, err)
	}
	defer client.Close()
	fmt.Println("Project ID:", projectID)

	for _, item := range items[1:] {
		parts := strings.Split(item, ":")
		topicID := strings.ReplaceAll(parts[0], " ", "")
		topic, err := client.CreateTopic(ctx, topicID)
		if err != nil && !strings.Contains(err.Error(), "Topic already exists") {
			log.Panicf("Unable to create topic %s for project %s: %v", topicID, projectID, err)
		} else if err != nil {
			topic = client.Topic(topicID)
		}

		for _, s := range parts[1:] {
			subscriptionID := strings.ReplaceAll(s, " ", "")
			_, err = client.CreateSubscription(ctx, subscriptionID, pubsub.SubscriptionConfig{Topic: topic})
			if err != nil && !strings.Contains(err.Error(), "Subscription already exists") {
				log.Panicf("Unable to create subscription %s on topic %s for project %s: %v", subscriptionID, topicID, projectID, err)
			}
			fmt.Printf("Project, topic, subscription: [%s, %s, %s]\n", projectID, topic, subscriptionID)
		}
	}
}

func setupArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	config, err := boot.Load()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s,%s:%s", config.PubSubProjectID, config.PubSubChatTopic, config.PubSubChatSubscription), nil
}
