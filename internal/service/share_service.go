package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

var ErrInvalidEmail = errors.New("invalid email address")

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ShareService emails party share links via Amazon SES
type ShareService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewShareService creates a new share service. If fromEmail is empty the
// service is disabled and SendShareLink becomes a logged no-op.
func NewShareService(awsRegion, fromEmail, fromName string) (*ShareService, error) {
	if fromEmail == "" {
		log.Println("Share-by-email disabled: SES_FROM_EMAIL not configured")
		return &ShareService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Share-by-email enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &ShareService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the share service is enabled
func (s *ShareService) IsEnabled() bool {
	return s.enabled
}

// ValidateEmail checks the recipient address before any send attempt
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// SendShareLink emails the party's share link to toEmail
func (s *ShareService) SendShareLink(ctx context.Context, toEmail, birthdayKid, shareLink string) error {
	if err := ValidateEmail(toEmail); err != nil {
		return err
	}

	if !s.enabled {
		log.Printf("Skipping email send (service disabled): share link to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("%s is having a birthday party!", birthdayKid)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1>&#129418; You're invited!</h1>
		<p>%s is celebrating a birthday and you're on the guest list.</p>
		<p>Open the invitation, find your name and get your personal voice
		message from Rocky the Fox:</p>
		<p style="text-align: center;">
			<a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #ff6b35; color: white; text-decoration: none; border-radius: 5px;">Open invitation</a>
		</p>
		<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
	</div>
</body>
</html>
`, birthdayKid, shareLink, shareLink)

	textBody := fmt.Sprintf(`You're invited!

%s is celebrating a birthday and you're on the guest list.

Open the invitation, find your name and get your personal voice message
from Rocky the Fox:

%s
`, birthdayKid, shareLink)

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Share link emailed: to=%s, kid=%s", toEmail, birthdayKid)
	return nil
}
