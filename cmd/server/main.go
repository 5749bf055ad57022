package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	grpcactor "github.com/rbroggi/matchup/internal/actors/grpc"
	"github.com/rbroggi/matchup/internal/actors/metrics"
	mongoactor "github.com/rbroggi/matchup/internal/actors/mongo"
	"github.com/rbroggi/matchup/internal/actors/pubsub/producer"
	"github.com/rbroggi/matchup/internal/actors/pubsub/subscriber"
	"github.com/rbroggi/matchup/internal/actors/rest"
	"github.com/rbroggi/matchup/internal/actors/websocket"
	"github.com/rbroggi/matchup/internal/boot"
	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
	"github.com/rbroggi/matchup/internal/core/usecase"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	// Output to stdout instead of the default stderr
	// Can be any io.Writer, see below for File example
	log.SetOutput(os.Stdout)

	// Only log the DebugLevel severity or above.
	log.SetLevel(log.DebugLevel)
}

const (
	shutdownTimeout = 10 * time.Second
	healthInterval  = 15 * time.Second
)

func run() error {
	config, err := boot.Load()
	if err != nil {
		return err
	}
	log.SetLevel(config.Level())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoDBURL))
	if err != nil {
		log.WithError(err).Error("could not connect to db")
		return err
	}
	defer db.Disconnect(context.Background())
	if err := db.Ping(ctx, nil); err != nil {
		log.WithError(err).Error("db does not appear to be reachable")
		return err
	}
	database := db.Database(config.MongoDBDatabase)

	mongoActor, err := mongoactor.NewMongoDB(mongoactor.MongoDBArgs{
		UserCollection:    database.Collection("users"),
		ProjectCollection: database.Collection("projects"),
		MessageCollection: database.Collection("messages"),
	})
	if err != nil {
		log.WithError(err).Error("could not initialize mongo actor")
		return err
	}

	hub := websocket.NewHub(websocket.HubArgs{AllowedOrigins: config.AllowedOrigins})
	defer hub.Close()

	// without pubsub the local hub is the only audience
	var broadcaster ports.Broadcaster = hub
	if config.PubSubEnabled {
		client, err := pubsub.NewClient(ctx, config.PubSubProjectID)
		if err != nil {
			log.WithError(err).Error("could not create pubsub client")
			return err
		}
		defer client.Close()

		topic := client.Topic(config.PubSubChatTopic)
		defer topic.Stop()
		chatProducer, err := producer.NewProducer(topic)
		if err != nil {
			return err
		}
		broadcaster = chatProducer

		chatSubscriber := subscriber.NewSubscriber(subscriber.SubscriberArgs{
			Subscription:     client.Subscription(config.PubSubChatSubscription),
			ChatEventHandler: usecase.NewInformer(hub),
		})
		go func() {
			if err := chatSubscriber.Consume(ctx); err != nil {
				log.WithError(err).Error("chat subscriber stopped")
			}
		}()
	}

	attributes := config.Attributes
	if len(attributes) == 0 {
		attributes = model.DefaultAttributes
	}
	vocabulary := model.NewVocabulary(attributes...)
	log.WithField("attributes", vocabulary.Attributes()).Debug("recognized attributes loaded")

	chat := usecase.NewChatService(usecase.ChatServiceArgs{Repository: mongoActor, Broadcaster: broadcaster})
	server := rest.NewServer(rest.ServerArgs{
		Projects: usecase.NewProjectService(usecase.ProjectServiceArgs{
			Repository: mongoActor,
			Emitter:    chat,
			Vocabulary: vocabulary,
		}),
		Matching: usecase.NewMatchingService(usecase.MatchingServiceArgs{
			Repository: mongoActor,
			Emitter:    chat,
			Vocabulary: vocabulary,
		}),
		Chat:          chat,
		Users:         usecase.NewUserService(usecase.UserServiceArgs{Repository: mongoActor, Vocabulary: vocabulary}),
		Notifications: usecase.NewNotificationService(usecase.NotificationServiceArgs{Repository: mongoActor}),
		Hub:           hub,
		Authenticator: rest.NewAuthenticator(rest.AuthenticatorArgs{
			Secret: []byte(config.SessionSecret),
			Name:   config.SessionName,
			Secure: config.IsProduction(),
		}),
		Pinger: mongoActor,
	})

	httpServer := &http.Server{Addr: config.HTTPAddr, Handler: server.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{Addr: config.MetricsAddr, Handler: metricsMux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("metrics server failed")
		}
	}()

	health := grpcactor.NewHealthServer(mongoActor)
	health.Refresh(ctx)
	grpcServer := grpcactor.NewServer(health)
	lis, err := net.Listen("tcp", config.GRPCAddr)
	if err != nil {
		return err
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Fatal("grpc server failed")
		}
	}()
	go func() {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				health.Refresh(ctx)
			}
		}
	}()

	log.
		WithField("http-server-addr", config.HTTPAddr).
		WithField("grpc-server-addr", config.GRPCAddr).
		WithField("metrics-server-addr", config.MetricsAddr).
		WithField("pubsub", config.PubSubEnabled).
		Info("servers up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the server")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-ch

	// Stop servers
	health.Shutdown()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error shutting down http server")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error shutting down metrics server")
	}
	grpcServer.GracefulStop()
	cancel()

	return nil
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}
