// Package services – EmailService
//
// Best-effort notification mail over Amazon SES. Sends are fire-and-forget
// from the caller's perspective: a failed welcome or login email must never
// fail the request that triggered it.
package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"
)

// Mailer is the notification contract used by AuthService.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailService sends plain-text notification mail via SES. With no from
// address configured it is a no-op, so local and test environments need no
// AWS credentials.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewEmailService builds the SES-backed mailer. An empty fromEmail yields a
// disabled service that silently drops every send.
func NewEmailService(ctx context.Context, region, fromEmail, fromName string) (*EmailService, error) {
	if fromEmail == "" {
		log.Info().Msg("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	log.Info().Str("from", fromEmail).Str("region", region).Msg("email service enabled")
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// Enabled reports whether sends will actually reach SES.
func (s *EmailService) Enabled() bool { return s.enabled }

// Send delivers a plain-text email, or does nothing when disabled.
func (s *EmailService) Send(ctx context.Context, to, subject, body string) error {
	if !s.enabled {
		log.Debug().Str("to", to).Str("subject", subject).Msg("skipping email send (service disabled)")
		return nil
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
