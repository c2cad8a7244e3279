package port

import (
	"context"

	"quoteengine/internal/service/quote/domain"
)

// QuotePublisher 是审计事件的出站端口。
type QuotePublisher interface {
	PublishQuoteIssued(ctx context.Context, event *domain.QuoteIssued) error
}
