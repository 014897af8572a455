package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

//go:embed templates/*.html
var templatesFS embed.FS

var clientAssignedTmpl = template.Must(template.ParseFS(templatesFS, "templates/client_assigned.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	dialer dialer
}

func NewEmailSender(cfg config.MailConfig) *EmailSender {
	return &EmailSender{
		From:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// NotifyClientAssigned avisa o account manager de que recebeu um novo cliente.
func (s *EmailSender) NotifyClientAssigned(ctx context.Context, manager *entity.UserProfile, client *entity.Client) error {
	if manager == nil || manager.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := renderClientAssigned(manager, client)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", manager.Email)
	m.SetHeader("Subject", fmt.Sprintf("Novo cliente: %s 🚀", client.CompanyName))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	log.WithFields(log.Fields{
		"client_id":  client.ID,
		"manager_id": manager.ID,
	}).Info("📧 email de atribuição enviado")
	return nil
}

func renderClientAssigned(manager *entity.UserProfile, client *entity.Client) (string, error) {
	data := ClientAssignedEmailData{
		ManagerName:       manager.ResolvedName(),
		CompanyName:       client.CompanyName,
		ContractStartDate: client.ContractStartDate.Format("02/01/2006"),
		ClientID:          client.ID,
	}
	if client.SubscriptionPackage != nil {
		data.SubscriptionPackage = *client.SubscriptionPackage
	}
	if client.MonthlyValue.Valid {
		data.MonthlyValue = client.MonthlyValue.Decimal.StringFixed(2)
	}

	var body bytes.Buffer
	if err := clientAssignedTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

// LogNotifier substitui o SMTP quando MAIL_HOST não está configurado.
type LogNotifier struct{}

func (LogNotifier) NotifyClientAssigned(_ context.Context, manager *entity.UserProfile, client *entity.Client) error {
	log.WithFields(log.Fields{
		"client_id":  client.ID,
		"manager_id": manager.ID,
	}).Info("📭 SMTP desligado, notificação de atribuição só logada")
	return nil
}
