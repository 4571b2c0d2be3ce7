package config

type RabbitMQ struct {
	URL       string
	QueueName string
}
