package kafka

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

type KafkaClient struct {
	producer sarama.SyncProducer
	brokers  []string
}

type Message struct {
	Key   string
	Value []byte
}

func NewKafkaClient(brokers string) (*KafkaClient, error) {
	brokerList := strings.Split(brokers, ",")

	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0

	// Producer config - otimizado para performance em lote
	config.Producer.RequiredAcks = sarama.WaitForLocal // Mais rápido que WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 50 * time.Millisecond
	config.Producer.MaxMessageBytes = 1024 * 1024 // 1MB max por mensagem

	producer, err := sarama.NewSyncProducer(brokerList, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return &KafkaClient{
		producer: producer,
		brokers:  brokerList,
	}, nil
}

func (k *KafkaClient) Producer(messages []Message, topic string) error {
	if len(messages) == 0 {
		return nil
	}

	kafkaMessages := make([]*sarama.ProducerMessage, len(messages))
	for i, msg := range messages {
		kafkaMessages[i] = &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(msg.Key),
			Value: sarama.ByteEncoder(msg.Value),
		}
	}

	if err := k.producer.SendMessages(kafkaMessages); err != nil {
		return fmt.Errorf("failed to send messages to topic %s: %w", topic, err)
	}

	log.Printf("Sent %d messages to topic %s", len(messages), topic)
	return nil
}

func (k *KafkaClient) Close() error {
	return k.producer.Close()
}
