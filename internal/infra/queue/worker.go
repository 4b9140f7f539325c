package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
)


// EmailDelivery é o contrato de entrega por email (gomail em produção).
type EmailDelivery interface {
	SendAssignment(to, name, company, message string) error
}


// Worker consome a fila de notificações: persiste a notificação para o sino
// do dashboard e tenta entregar por email. Email falhando não derruba a
// mensagem — a notificação persistida já cumpre o contrato.
type Worker struct {
	Channel *amqp.Channel
	Users   entity.UserRepositoryInterface
	Repo    entity.NotificationRepositoryInterface
	Mail    EmailDelivery
	Leads   entity.LeadRepositoryInterface
}

func NewWorker(ch *amqp.Channel, users entity.UserRepositoryInterface, repo entity.NotificationRepositoryInterface, mail EmailDelivery, leads entity.LeadRepositoryInterface) *Worker {
	return &Worker{
		Channel: ch,
		Users:   users,
		Repo:    repo,
		Mail:    mail,
		Leads:   leads,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NotificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [NOTIFY] JSON inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [NOTIFY] Erro ao entregar para %s: %s", payload.UserID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker de notificações aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload NotificationPayload) error {
	if err := w.Repo.Create(ctx, &entity.Notification{
		ID:      uuid.NewString(),
		UserID:  payload.UserID,
		LeadID:  payload.LeadID,
		Type:    payload.EventType,
		Message: payload.Message,
	}); err != nil {
		return err
	}

	// Email é cortesia: quem manda no contrato é a notificação persistida.
	user, err := w.Users.FindByID(ctx, payload.UserID)
	if err != nil {
		log.Printf("⚠️ [NOTIFY] Usuário %s não encontrado para email: %v", payload.UserID, err)
		return nil
	}

	lead, err := w.Leads.FindByID(ctx, payload.LeadID)
	if err != nil {
		log.Printf("⚠️ [NOTIFY] Lead %s não encontrado para email: %v", payload.LeadID, err)
		return nil
	}

	if err := w.Mail.SendAssignment(user.Email, user.Name, lead.Company, payload.Message); err != nil {
		middleware.RecordNotificationError()
		log.Printf("⚠️ [NOTIFY] Falha no email para %s: %v", user.Email, err)
	}

	return nil
}
