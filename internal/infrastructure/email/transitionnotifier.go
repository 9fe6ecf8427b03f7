package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/biztime"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/goroutine"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// TransitionNotifier e-mails the company when the sweep expires its trial or
// flags its payment as overdue. Delivery runs in the background; a failure
// is logged and never affects the sweep.
type TransitionNotifier struct {
	companyRepo company.Repository
	sender      Sender
	baseURL     string
	logger      logger.Interface
}

func NewTransitionNotifier(companyRepo company.Repository, sender Sender, baseURL string, logger logger.Interface) *TransitionNotifier {
	return &TransitionNotifier{
		companyRepo: companyRepo,
		sender:      sender,
		baseURL:     baseURL,
		logger:      logger,
	}
}

func (n *TransitionNotifier) OnStatusTransition(ctx context.Context, t usecases.Transition) {
	if t.To != vo.StatusExpired && t.To != vo.StatusOverdue {
		return
	}
	detached := context.WithoutCancel(ctx)
	goroutine.SafeGo(n.logger, "transition-email", func() {
		if err := n.notify(detached, t); err != nil {
			n.logger.Warnw("failed to send transition email",
				"company_id", t.CompanyID,
				"to_status", t.To,
				"error", err,
			)
		}
	})
}

func (n *TransitionNotifier) notify(ctx context.Context, t usecases.Transition) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	c, err := n.companyRepo.GetByID(ctx, t.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to load company: %w", err)
	}
	if c == nil {
		return fmt.Errorf("company %d not found", t.CompanyID)
	}

	msg := n.compose(c.Name(), t)
	msg.To = c.Email()
	if err := n.sender.Send(msg); err != nil {
		return err
	}

	n.logger.Infow("transition email sent", "company_id", t.CompanyID, "to_status", t.To)
	return nil
}

func (n *TransitionNotifier) compose(companyName string, t usecases.Transition) Message {
	date := t.At.In(biztime.Location()).Format("02/01/2006")
	link := n.baseURL + "/assinatura"

	var subject, lead string
	switch t.To {
	case vo.StatusExpired:
		subject = "Seu período de teste terminou"
		lead = fmt.Sprintf("O período de teste de %s terminou em %s.", companyName, date)
	default:
		subject = "Pagamento da assinatura em atraso"
		lead = fmt.Sprintf("Não identificamos o pagamento da assinatura de %s com vencimento até %s.", companyName, date)
	}
	action := "Escolha um plano para continuar usando o sistema:"

	plain := fmt.Sprintf("%s\n\n%s\n%s\n", lead, action, link)
	htmlBody := fmt.Sprintf(`<html><body><p>%s</p><p>%s</p><p><a href="%s">%s</a></p></body></html>`,
		html.EscapeString(lead), action, html.EscapeString(link), html.EscapeString(link))

	return Message{Subject: subject, PlainBody: plain, HTMLBody: htmlBody}
}

// LogSender stands in for SMTP when e-mail is disabled.
type LogSender struct {
	logger logger.Interface
}

func NewLogSender(logger logger.Interface) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(msg Message) error {
	s.logger.Infow("email delivery disabled, message dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}
