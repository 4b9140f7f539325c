package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)


// AssignmentTx agrupa as escritas que precisam ser atômicas numa
// (re)atribuição: lead, histórico e cursor do round-robin. Ou entra tudo,
// ou não entra nada — por lead.
type AssignmentTx interface {

	// LockCursor trava e devolve o último atribuído do papel ("" se nunca
	// houve atribuição). Segura o lock até o fim da transação para que dois
	// escritores não calculem o mesmo "próximo".
	LockCursor(ctx context.Context, role string) (string, error)

	SetCursor(ctx context.Context, role, userID string) error

	// UpdateLeadAssignment falha com ErrAssignmentConflict se o assignee
	// atual não for mais prevAssignee (escrita concorrente venceu).
	UpdateLeadAssignment(ctx context.Context, leadID string, prevAssignee *string, newAssignee string, assignedAt, deadline time.Time) error

	AppendEvent(ctx context.Context, ev *entity.AssignmentEvent) error
}


type AssignmentStoreInterface interface {
	WithinLeadTx(ctx context.Context, fn func(tx AssignmentTx) error) error
}


// NotifierInterface entrega um evento em tempo real ao usuário afetado.
// Best-effort: falha aqui nunca desfaz a atribuição já commitada.
type NotifierInterface interface {
	Notify(ctx context.Context, userID, leadID, eventType, message string) error
}
