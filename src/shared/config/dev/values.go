package dev

import "github.com/veedubyou/untracker/src/shared/config"

// RabbitMQ
const (
	RabbitMQHost      = "amqp://localhost:5672"
	RabbitMQQueueName = "untracker-stems-dev"
)

var RabbitMQConfig = config.RabbitMQ{
	URL:       RabbitMQHost,
	QueueName: RabbitMQQueueName,
}

// Cloud storage, served by fake-gcs-server
const (
	StorageHost       = "http://localhost:4443"
	StorageBucketName = "untracker-stems-dev"
)

var CloudStorageConfig = config.LocalCloudStorage{
	StorageHost:  StorageHost,
	HostEndpoint: StorageHost + "/storage/v1",
	BucketName:   StorageBucketName,
}
