package dynft

import (
	"context"

	"github.com/segmentio/kafka-go"
)

const (
	MintTopic  = "dynft_mint"
	EventTopic = "dynft_event"
)

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) Write(body []byte) error {
	err := kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Value: body,
		},
	)
	return err
}

func (kw *KWriter) Close() {
	kw.w.Close()
}

func NewKWriters(uri string) (map[string]*KWriter, error) {
	mintWriter, err := NewKWriter(MintTopic, uri)
	if err != nil {
		return nil, err
	}
	eventWriter, err := NewKWriter(EventTopic, uri)
	if err != nil {
		return nil, err
	}
	return map[string]*KWriter{
		MintTopic:  mintWriter,
		EventTopic: eventWriter,
	}, nil
}
