package persistent_cached

import (
	"context"
	"log"

	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/config"
	"github.com/RichardKnop/machinery/v1/tasks"
)

const warmPostListTask = "warmPostList"

// Broker hands post list warm ups to machinery workers.
type Broker struct {
	server *machinery.Server
}

func (b *Broker) WarmPostList(ctx context.Context) error {
	task := createWarmPostListTask()
	_, err := b.server.SendTaskWithContext(ctx, &task)
	return err
}

func (b *Broker) LaunchWorker() error {
	consumerTag := "machinery_worker"

	worker := b.server.NewWorker(consumerTag, 0)

	errorhandler := func(err error) {
		log.Printf("Something went wrong: %s", err)
	}

	worker.SetErrorHandler(errorhandler)

	return worker.Launch()
}

func CreateBroker(brokerUrl string, cache *PersistentStorageWithCache) (*Broker, error) {
	server, err := startBroker(brokerUrl, cache)
	if err != nil {
		return nil, err
	}
	return &Broker{server: server}, nil
}

func startBroker(brokerUrl string, cache *PersistentStorageWithCache) (*machinery.Server, error) {
	cnf := &config.Config{
		DefaultQueue:    "machinery_tasks",
		ResultsExpireIn: 3600,
		Broker:          brokerUrl, // "redis://localhost:6379"
		ResultBackend:   brokerUrl,
		Redis: &config.RedisConfig{
			MaxIdle:                3,
			IdleTimeout:            240,
			ReadTimeout:            15,
			WriteTimeout:           15,
			ConnectTimeout:         15,
			NormalTasksPollPeriod:  1000,
			DelayedTasksPollPeriod: 500,
		},
	}
	server, err := machinery.NewServer(cnf)
	if err != nil {
		return nil, err
	}

	warmPostList := func() (int, error) {
		count, err := cache.RefreshPostList(context.Background())
		if err != nil {
			log.Printf("Failed to warm post list: %s", err.Error())
			return 0, err
		}
		log.Printf("Warmed post list with %d posts", count)
		return count, nil
	}

	return server, server.RegisterTasks(map[string]interface{}{
		warmPostListTask: warmPostList,
	})
}

func createWarmPostListTask() tasks.Signature {
	return tasks.Signature{
		Name: warmPostListTask,
	}
}
