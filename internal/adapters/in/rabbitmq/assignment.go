package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

func (l *ScheduleEventsListener) startAssignmentQueue(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.AssignmentQueueName,
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
		l.cfg.RabbitMq.QueueConfig.AssignmentQueueBind,
		l.cfg.RabbitMq.QueueConfig.AssignmentQueueExchange,
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
				if err := l.processAssignmentMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *ScheduleEventsListener) processAssignmentMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseScheduleEventRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.ResourceType != ScheduleResourceTypeAssignment {
		return nil
	}

	l.logger.Info("assignment.message.received", out.LogFields{
		"routingKey": msg.RoutingKey,
		"eventType":  routingKey.EventType,
	})

	// Бэкенд перегенерировал расписание - и store, и invalidate значат одно:
	// локальная доска устарела, перечитываем целиком
	// Вместе с расписанием устаревают и закэшированные профили с историями
	l.useCase.InvalidateAllCaches(ctx)

	if err := l.useCase.RefreshBoard(ctx); err != nil {
		l.logger.Error("assignment.message.refresh_failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}

	l.logger.Info("assignment.message.refreshed", out.LogFields{})

	return nil
}
