package services

import (
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"fmt"
	"html"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

// Enabled is false when no resend API key is configured; mails are then skipped.
func (es *EmailService) Enabled() bool {
	return es.cfg.Email.ApiKey != "" && es.cfg.Email.From != ""
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	if _, err := es.client.Emails.Send(params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}
	return nil
}

// SendWelcomeEmail tells a new employee which username to log in with.
func (es *EmailService) SendWelcomeEmail(user *tables.User) error {
	if !es.Enabled() {
		es.logger.Debug("Email disabled, skipping welcome email", gecho.Field("user_id", user.Id))
		return nil
	}

	shop := html.EscapeString(es.cfg.Server.ShopName)
	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head><meta charset="UTF-8"></head>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
				<h1 style="color: #8a6d3b;">Bienvenue chez %s</h1>
				<p>Bonjour %s,</p>
				<p>Un compte a été créé pour vous sur l'application de suivi des réparations.</p>
				<p>Identifiant : <strong>%s</strong></p>
				<p>Votre mot de passe vous sera communiqué par l'administrateur.</p>
				<p style="color: #666; font-size: 12px;">%s</p>
			</div>
		</body>
		</html>
	`, shop, html.EscapeString(user.FullName), html.EscapeString(user.Username), shop)

	return es.SendEmail([]string{user.Email}, "Votre compte "+es.cfg.Server.ShopName, body)
}
