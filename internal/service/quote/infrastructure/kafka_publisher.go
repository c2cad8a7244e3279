package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"quoteengine/internal/pkg/mq"
	"quoteengine/internal/service/quote/domain"
)

// KafkaQuotePublisher 把 quote.issued 事件写入 kafka。
// writer 是异步的，WriteMessages 只在入队失败时返回错误。
type KafkaQuotePublisher struct {
	writer *kafka.Writer
}

func NewKafkaQuotePublisher(writer *kafka.Writer) *KafkaQuotePublisher {
	return &KafkaQuotePublisher{writer: writer}
}

func (p *KafkaQuotePublisher) PublishQuoteIssued(ctx context.Context, event *domain.QuoteIssued) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal quote issued event")
	}
	if err := mq.ProduceMessage(ctx, p.writer, []byte(event.QuoteID), eventBytes); err != nil {
		return errors.Wrap(err, "produce quote issued event")
	}
	return nil
}

func (p *KafkaQuotePublisher) Close() error {
	return p.writer.Close()
}

// NopQuotePublisher 在未启用 kafka 时使用
type NopQuotePublisher struct{}

func (NopQuotePublisher) PublishQuoteIssued(context.Context, *domain.QuoteIssued) error {
	return nil
}
