package notifications

import (
	"context"
	"fmt"
	"time"

	"tiketku/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes booking notifications to the message broker.
type Producer interface {
	Publish(ctx context.Context, notification *BookingNotification) error
	HealthCheck(ctx context.Context) error
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer creates a synchronous Kafka producer with idempotent
// writes and hash partitioning by user.
func NewKafkaProducer(brokers []string, topic string) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.GetDefault().Info("Kafka notification producer created", "topic", topic)
	return &kafkaProducer{producer: producer, topic: topic}, nil
}

func (p *kafkaProducer) Publish(ctx context.Context, notification *BookingNotification) error {
	payload, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(notification.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: notification.CreatedAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(notification.Type)},
			{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	logger.GetDefault().Debug("notification published",
		"type", string(notification.Type),
		"booking_id", notification.BookingID.String(),
		"partition", partition,
		"offset", offset)
	return nil
}

func (p *kafkaProducer) HealthCheck(ctx context.Context) error {
	probe := &BookingNotification{Type: "HEALTH_CHECK", CreatedAt: time.Now()}
	payload, err := probe.ToJSON()
	if err != nil {
		return err
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder("health"),
		Value: sarama.ByteEncoder(payload),
	})
	return err
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}
