package messaging

import (
	"log"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	if err := declareExchange(ch, name); err != nil {
		return nil, err
	}
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic hands every delivery to handler. Messages the handler
// rejects are dropped without requeue; the listener keeps running.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func() {
		defer ch.Close()
		for d := range msgs {
			if err := handler(d); err != nil {
				log.Printf("failed to handle %s message: %v", topic, err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
		log.Printf("listener for %s stopped", topic)
	}()
	return nil
}

// DecodeHandler adapts a typed callback to a delivery handler.
func DecodeHandler[V any](fn func(V) error) func(amqp.Delivery) error {
	return func(d amqp.Delivery) error {
		var data V
		if err := sonic.Unmarshal(d.Body, &data); err != nil {
			return err
		}
		return fn(data)
	}
}
