package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/carwash-schedule-board/internal/config"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/in"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

// ScheduleEventsListener слушает события бэкенда о перегенерации расписания
// и правках клиентов, чтобы доска не жила на устаревшем состоянии
type ScheduleEventsListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.ScheduleBoardUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

type (
	ScheduleEventType    string
	ScheduleResourceType string
)

type ScheduleEventRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType ScheduleResourceType
	EventType    ScheduleEventType
}

const (
	ScheduleResourceTypeAssignment ScheduleResourceType = "assignment"
	ScheduleResourceTypeCustomer   ScheduleResourceType = "customer"
)

const (
	ScheduleEventTypeStore      ScheduleEventType = "store"
	ScheduleEventTypeInvalidate ScheduleEventType = "invalidate"
)

func NewScheduleEventsListener(useCase in.ScheduleBoardUseCase, cfg *config.Config, logger out.LoggerPort) (*ScheduleEventsListener, error) {
	if !cfg.RabbitMq.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMq.AmqpUri)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMq.AmqpUri,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &ScheduleEventsListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *ScheduleEventsListener) Start(ctx context.Context) error {
	var err error
	err = l.startAssignmentQueue(ctx)
	if err != nil {
		return err
	}
	l.logger.Info("assignment.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMq.QueueConfig.AssignmentQueueName,
	})
	err = l.startCustomerQueue(ctx)
	if err != nil {
		return err
	}
	l.logger.Info("customer.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMq.QueueConfig.CustomerQueueName,
	})

	return nil
}

func (l *ScheduleEventsListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// Пример routingKey:
// carwash.schedule-board.assignment.store
// carwash.schedule-board.assignment.invalidate
// carwash.schedule-board.customer.invalidate
func (l *ScheduleEventsListener) parseScheduleEventRoutingKey(msg amqp.Delivery) (ScheduleEventRoutingKey, error) {
	routingKey := msg.RoutingKey
	parts := strings.Split(routingKey, ".")

	if len(parts) < 4 {
		return ScheduleEventRoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return ScheduleEventRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: ScheduleResourceType(parts[2]),
		EventType:    ScheduleEventType(parts[3]),
	}, nil
}
