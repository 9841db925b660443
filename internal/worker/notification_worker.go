package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/client"
	"github.com/taskcomply/obrigacoes-service/internal/repository"
)

// NotificationWorker - consome eventos de workflow do RabbitMQ e persiste
// notificações; o serviço de email (fora deste núcleo) lê a tabela depois.
type NotificationWorker struct {
	amqpURL          string
	notificationRepo repository.INotificationRepository
}

func NewNotificationWorker(amqpURL string, notificationRepo repository.INotificationRepository) *NotificationWorker {
	return &NotificationWorker{
		amqpURL:          amqpURL,
		notificationRepo: notificationRepo,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	// Conexão e canal próprios para o consumer
	conn, err := amqp.Dial(w.amqpURL)
	if err != nil {
		log.Printf("❌ Erro ao conectar no RabbitMQ para o worker: %v", err)
		return
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		log.Printf("❌ Erro ao criar canal para o worker: %v", err)
		return
	}
	defer channel.Close()

	// Garantimos que a fila existe
	_, err = channel.QueueDeclare(
		client.WorkflowEventsQueue, // name
		true,                       // durable
		false,                      // delete when unused
		false,                      // exclusive
		false,                      // no-wait
		nil,                        // arguments
	)
	if err != nil {
		log.Printf("❌ Erro ao declarar fila: %v", err)
		return
	}

	msgs, err := channel.Consume(
		client.WorkflowEventsQueue, // queue
		"notification_worker",      // consumer tag
		false,                      // auto-ack
		false,                      // exclusive
		false,                      // no-local
		false,                      // no-wait
		nil,                        // args
	)
	if err != nil {
		log.Printf("❌ Erro ao criar consumer: %v", err)
		return
	}

	fmt.Println("✅ Notification Worker iniciado. Aguardando eventos...")

	for {
		select {
		case <-ctx.Done():
			fmt.Println("🛑 Notification Worker parado")
			return
		case msg, ok := <-msgs:
			if !ok {
				fmt.Println("📨 Canal de mensagens fechado")
				return
			}
			w.processMessage(msg)
		}
	}
}

func (w *NotificationWorker) processMessage(msg amqp.Delivery) {
	ctx := context.Background()

	// 1. Parse do evento
	var event entity.WorkflowEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("❌ Erro ao parsear evento: %v", err)
		msg.Nack(false, false) // mensagem malformada não volta para a fila
		return
	}

	// 2. Convertemos em notificação
	notification, err := w.convertToNotification(&event)
	if err != nil {
		log.Printf("❌ Erro ao converter evento: %v", err)
		msg.Nack(false, true) // volta para a fila para reprocessar
		return
	}

	// 3. Persistimos
	if err := w.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("❌ Erro ao salvar notificação: %v", err)
		msg.Nack(false, true)
		return
	}

	// 4. Confirmamos o processamento
	msg.Ack(false)
	log.Printf("✅ Notificação registrada: %s tarefa ID=%d", event.Type, event.TaskID)
}

func (w *NotificationWorker) convertToNotification(event *entity.WorkflowEvent) (*entity.Notification, error) {
	var payload *string
	if event.Details != nil {
		detailsJSON, err := json.Marshal(event.Details)
		if err != nil {
			return nil, err
		}
		detailsStr := string(detailsJSON)
		payload = &detailsStr
	}

	return &entity.Notification{
		TenantID:        event.TenantID,
		EventType:       event.Type,
		TaskID:          event.TaskID,
		JustificationID: event.JustificationID,
		ActorID:         event.ActorID,
		Payload:         payload,
	}, nil
}
