package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	POST_PUBLISHED_QUEUE = "post_published"
	USER_INFO_UPDATED_QUEUE = "user_info_updated"
)

type MQConn struct {
	conn *amqp.Connection
	ch *amqp.Channel
}

func New(connString string) (*MQConn, error) {
	conn, err := amqp.Dial(connString)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &MQConn{
		conn: conn,
		ch: ch,
	}, nil
}

func (m *MQConn) declareQueue(queue string) error {
	_, err := m.ch.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

func (m *MQConn) Publish(ctx context.Context, queue string, body []byte) error {
	if err := m.declareQueue(queue); err != nil {
		return err
	}

	return m.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body: body,
	})
}

func (m *MQConn) Consume(queue string) (<-chan amqp.Delivery, error) {
	if err := m.declareQueue(queue); err != nil {
		return nil, err
	}

	return m.ch.Consume(queue, "", false, false, false, false, nil)
}

func (m *MQConn) Close() error {
	if err := m.ch.Close(); err != nil {
		return err
	}
	return m.conn.Close()
}
