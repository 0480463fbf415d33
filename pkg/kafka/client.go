// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"rollingdice-go/internal/config"
	"rollingdice-go/pkg/events"
	"rollingdice-go/pkg/log"
	"strconv"
	"strings"

	"github.com/segmentio/kafka-go"
)

// Publisher 发布掷骰事件。
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher 初始化 Kafka 生产者。
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokerAddrs(cfg.Brokers)...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	log.Infof("Kafka 生产者初始化成功, topic: %s", cfg.Topic)
	return &Publisher{writer: w}
}

// brokerAddrs 将逗号分隔的 broker 列表拆分为地址切片，忽略空项。
func brokerAddrs(brokers string) []string {
	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	return addrs
}

// PublishRoll 发送一个掷骰事件到 Kafka。
func (p *Publisher) PublishRoll(ctx context.Context, event events.RollEvent) error {
	msg, err := NewRollMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write roll event: %w", err)
	}
	return nil
}

// Close 关闭底层的 Writer，刷新尚未发送的消息。
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NewRollMessage 将掷骰事件编码为 Kafka 消息，以出目作为 key。
func NewRollMessage(event events.RollEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal roll event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.Itoa(event.Value)),
		Value: value,
	}, nil
}

// NoopPublisher 在未启用 Kafka 时使用，丢弃所有事件。
type NoopPublisher struct{}

// PublishRoll does nothing.
func (NoopPublisher) PublishRoll(context.Context, events.RollEvent) error { return nil }
