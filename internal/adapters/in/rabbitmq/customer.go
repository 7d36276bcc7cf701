package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

type CustomerEventMessage struct {
	CustomerID string `json:"customerId"`
}

func (l *ScheduleEventsListener) startCustomerQueue(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.CustomerQueueName,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}
	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMq.QueueConfig.CustomerQueueBind,
		l.cfg.RabbitMq.QueueConfig.CustomerQueueExchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := l.processCustomerMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *ScheduleEventsListener) processCustomerMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseScheduleEventRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.ResourceType != ScheduleResourceTypeCustomer {
		return nil
	}

	var msgJson CustomerEventMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		return err
	}

	l.logger.Info("customer.message.received", out.LogFields{
		"customerId": msgJson.CustomerID,
		"eventType":  routingKey.EventType,
	})

	// Профиль и история клиента закэшированы, после правки на бэкенде
	// их надо перечитать
	l.useCase.InvalidateCustomerCache(ctx, msgJson.CustomerID)

	l.logger.Info("customer.message.invalidated", out.LogFields{
		"customerId": msgJson.CustomerID,
	})

	return nil
}
