package publisher

import (
	"context"
	"time"

	"jonx/internal/domain"

	"github.com/go-zeromq/zmq4"
	gojson "github.com/goccy/go-json"
)

const conversionTopic = "conversion"

// ZeroMQConversionPublisher broadcasts conversion events on a PUB socket so
// other instances and viewers can refresh without polling.
type ZeroMQConversionPublisher struct {
	pub zmq4.Socket
}

func NewZeroMQConversionPublisher(endpoint string) (*ZeroMQConversionPublisher, error) {
	reconnectOpt := zmq4.WithAutomaticReconnect(true)
	retryOpt := zmq4.WithDialerRetry(time.Second * 5)
	socket := zmq4.NewPub(context.Background(), reconnectOpt, retryOpt)
	if err := socket.Listen(endpoint); err != nil {
		return nil, err
	}
	return &ZeroMQConversionPublisher{pub: socket}, nil
}

func (p *ZeroMQConversionPublisher) PublishConversion(ev domain.ConversionEvent) error {
	payload, err := gojson.Marshal(ev)
	if err != nil {
		return err
	}
	msg := zmq4.NewMsgFrom(
		[][]byte{
			[]byte(conversionTopic),
			payload,
		}...,
	)
	return p.pub.Send(msg)
}

func (p *ZeroMQConversionPublisher) Close() error {
	return p.pub.Close()
}

// NoopPublisher drops every event; used when no endpoint is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) PublishConversion(domain.ConversionEvent) error {
	return nil
}
