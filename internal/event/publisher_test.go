package event

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

// recordingChannel captures publishings instead of hitting a broker
type recordingChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	calls    int
}

func (r *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	r.exchange = exchange
	r.key = key
	r.msg = msg
	r.calls++
	return nil
}

func (r *recordingChannel) Close() error { return nil }

func TestPublishArticleEvent(t *testing.T) {
	log, err := logger.New("error", "text")
	require.NoError(t, err)

	ch := &recordingChannel{}
	p := &RabbitPublisher{
		ch:         ch,
		exchange:   "cms.news",
		routingKey: "article.updated",
		logger:     log,
	}

	article := &domain.Article{
		ID:    "id-1",
		Title: "Hello World",
		Slug:  "hello-world",
	}

	require.NoError(t, p.PublishArticleEvent(context.Background(), ArticleCreated, article))

	assert.Equal(t, 1, ch.calls)
	assert.Equal(t, "cms.news", ch.exchange)
	assert.Equal(t, "article.updated", ch.key)
	assert.Equal(t, uint8(amqp.Persistent), ch.msg.DeliveryMode)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var msg ArticleEventMessage
	require.NoError(t, json.Unmarshal(ch.msg.Body, &msg))
	assert.Equal(t, ArticleCreated, msg.Event)
	assert.Equal(t, "hello-world", msg.Article.Slug)
	assert.False(t, msg.Timestamp.IsZero())
}
