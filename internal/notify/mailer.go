// Package notify emails the personalized quote to the customer once the
// wizard completes. Delivery problems are logged and swallowed; a lost email
// must never fail a quote.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"laserquote/internal/common/errors"
	"laserquote/internal/common/logger"
	"laserquote/internal/models"
	"laserquote/internal/quote/pricing"
)

// SESService is the slice of the SES client the mailer uses, split out so
// tests can stub it.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Mailer struct {
	client SESService
	sender string
	logger logger.Logger
}

func NewMailer(ctx context.Context, region, sender string, log logger.Logger) (*Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewMailerWithClient(ses.NewFromConfig(awsCfg), sender, log), nil
}

func NewMailerWithClient(client SESService, sender string, log logger.Logger) *Mailer {
	return &Mailer{
		client: client,
		sender: sender,
		logger: log.With(map[string]interface{}{"component": "mailer"}),
	}
}

// SendQuote emails the quote summary to the contact. The returned error is
// informational; callers log it and move on.
func (m *Mailer) SendQuote(ctx context.Context, contact models.ContactInfo, data *pricing.QuoteData) error {
	if data == nil {
		return nil
	}

	subject := fmt.Sprintf("Tu presupuesto de corte láser %s", data.QuoteID)
	body := data.PersonalizedMessage
	if body == "" {
		body = fmt.Sprintf("Tu presupuesto %s asciende a €%.2f. Es válido hasta el %s.",
			data.QuoteID, data.TotalPrice, data.ValidUntil)
	}

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{contact.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		m.logger.Warn("quote email not sent", map[string]interface{}{
			"quote_id":  data.QuoteID,
			"recipient": contact.Email,
			"error":     err.Error(),
		})
		return errors.NewNotificationSendFailedError(err)
	}

	m.logger.Info("quote email sent", map[string]interface{}{
		"quote_id":  data.QuoteID,
		"recipient": contact.Email,
	})
	return nil
}
