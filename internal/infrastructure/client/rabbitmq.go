package client

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

const WorkflowEventsQueue = "workflow_events"

type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func NewRabbitMQClient(url string) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	// Declaramos a fila de eventos do workflow
	queue, err := channel.QueueDeclare(
		WorkflowEventsQueue, // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		return nil, err
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
		queue:   queue,
	}, nil
}

// GetChannel - canal AMQP para uso em consumers
func (c *RabbitMQClient) GetChannel() *amqp.Channel {
	return c.channel
}

// GetQueueName - nome da fila de eventos
func (c *RabbitMQClient) GetQueueName() string {
	return c.queue.Name
}

// PublishWorkflowEvent - publica um evento de workflow para o colaborador de
// notificação. A entrega é best-effort; o fluxo não depende dela.
func (c *RabbitMQClient) PublishWorkflowEvent(ctx context.Context, event *entity.WorkflowEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = c.channel.PublishWithContext(
		ctx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // mensagens sobrevivem a restart do broker
		},
	)

	if err != nil {
		return err
	}

	log.Printf("Evento publicado no RabbitMQ: %s tarefa ID=%d", event.Type, event.TaskID)
	return nil
}

func (c *RabbitMQClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
