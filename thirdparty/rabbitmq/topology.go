package rabbitmq

import (
	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/rabbitmq/amqp091-go"
)

// declareTopology declares the auth events exchange and the audit queue bound to it.
func declareTopology(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		constant.AuthEventsExchange, // name
		amqp091.ExchangeDirect,      // type
		true,                        // durable
		false,                       // auto-delete
		false,                       // internal
		false,                       // no-wait
		nil,                         // arguments
	)
	if err != nil {
		return err
	}

	_, err = channel.QueueDeclare(
		constant.LoginAuditQueue, // name
		true,                     // durable
		false,                    // auto-delete
		false,                    // exclusive
		false,                    // no-wait
		nil,                      // arguments
	)
	if err != nil {
		return err
	}

	return channel.QueueBind(
		constant.LoginAuditQueue,    // queue name
		constant.LoginRoutingKey,    // routing key
		constant.AuthEventsExchange, // exchange
		false,                       // no-wait
		nil,                         // arguments
	)
}

func dial(url string) (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, err
	}
	return conn, channel, nil
}
