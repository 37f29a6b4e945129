package broker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"comanda/internal/config"
	"comanda/internal/pos/domain/models"
	"comanda/pkg/logger"
)

const printQueueName = "print_jobs"

// PrintQueue publishes receipt work items to RabbitMQ. The print worker that
// drains the queue and drives the printers is a separate system; we only
// hand over plain receipt text.
type PrintQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mylog   logger.Logger
}

func Connect(cfg *config.RabbitMQ, mylog logger.Logger) (*PrintQueue, error) {
	connStr := fmt.Sprintf("amqp://%s:%s@%s:%s%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.VHost)

	conn, err := amqp.Dial(connStr)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		printQueueName, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare print queue: %w", err)
	}

	return &PrintQueue{
		conn:    conn,
		channel: channel,
		mylog:   mylog,
	}, nil
}

// Push enqueues one print job. Jobs are persistent so a restarting print
// worker picks them up again.
func (q *PrintQueue) Push(ctx context.Context, job models.PrintJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal print job: %w", err)
	}

	err = q.channel.PublishWithContext(ctx,
		"",             // default exchange
		printQueueName, // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish print job: %w", err)
	}

	q.mylog.Action("print_job_enqueued").Debug("print job enqueued",
		"type", job.Type, "table_id", job.TableID)
	return nil
}

func (q *PrintQueue) Close() error {
	if err := q.channel.Close(); err != nil {
		q.conn.Close()
		return fmt.Errorf("close channel: %w", err)
	}
	return q.conn.Close()
}
