package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)


// NotificationPayload é o evento publicado a cada (re)atribuição.
// Quem consome decide o canal de entrega (persistência + email).
type NotificationPayload struct {
	UserID     string    `json:"user_id"`
	LeadID     string    `json:"lead_id"`
	EventType  string    `json:"event_type"` // assignment, warning
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}


type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}


func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}


// Notify implementa a porta de notificação dos usecases: publica o evento na
// fila e pronto. Entrega é responsabilidade do worker consumidor.
func (p *RabbitMQProducer) Notify(ctx context.Context, userID, leadID, eventType, message string) error {
	return p.publish(ctx, NotificationPayload{
		UserID:     userID,
		LeadID:     leadID,
		EventType:  eventType,
		Message:    message,
		OccurredAt: time.Now(),
	})
}

func (p *RabbitMQProducer) publish(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.leads
		RoutingKey,   // k.notification
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco (segurança!)
		},
	)

	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
