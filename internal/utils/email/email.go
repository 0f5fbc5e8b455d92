package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/Dan9191/bank-ledger/internal/config"
	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// NotifyTransaction sends a credit or debit notice with the resulting balance
func (s *Sender) NotifyTransaction(ctx context.Context, user *models.User, t *models.Transaction, balance decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{user.Email}
	e.Subject = subject(t)
	e.Text = []byte(body(user, t, balance))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send %s notification to %s: %v", t.Type, user.Email, err)
		return fmt.Errorf("failed to send %s notification: %w", t.Type, err)
	}

	s.logger.Infof("Email sent to %s: %s", user.Email, e.Subject)
	return nil
}

func subject(t *models.Transaction) string {
	if t.Type == models.Credit {
		return "Credit Notification"
	}
	return "Debit Notification"
}

func body(user *models.User, t *models.Transaction, balance decimal.Decimal) string {
	text := fmt.Sprintf("Dear %s,\n\n", user.FirstName)
	switch {
	case t.Type == models.Credit && t.ToAccount != nil:
		text += fmt.Sprintf("Your account %s has been credited with %s %s.\n", t.ToAccount, t.Amount.StringFixed(2), t.Currency)
	case t.Type == models.Debit && t.ToAccount != nil:
		text += fmt.Sprintf("%s %s has been transferred from your account %s to account %s.\n",
			t.Amount.StringFixed(2), t.Currency, t.FromAccount, t.ToAccount)
	case t.FromAccount != nil:
		text += fmt.Sprintf("An amount of %s %s has been withdrawn from your account %s.\n", t.Amount.StringFixed(2), t.Currency, t.FromAccount)
	}
	text += fmt.Sprintf("Transaction time: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	text += fmt.Sprintf("Current balance: %s %s\n", balance.StringFixed(2), t.Currency)
	text += "\nBest regards,\nBank Service"
	return text
}
