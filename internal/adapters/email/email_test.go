package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevents/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("html and text", func(t *testing.T) {
		client := &fakeSES{}
		m := &sesMailer{client: client, source: formatSource("Dev Events", "noreply@devevents.io"), logger: discardLogger()}

		require.NoError(t, m.Send(ctx, "foo@bar.com", "Subject", "<p>hi</p>", "hi"))

		assert.Equal(t, "Dev Events <noreply@devevents.io>", aws.ToString(client.input.Source))
		assert.Equal(t, []string{"foo@bar.com"}, client.input.Destination.ToAddresses)
		assert.Equal(t, "Subject", aws.ToString(client.input.Message.Subject.Data))
		assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
		assert.Equal(t, "hi", aws.ToString(client.input.Message.Body.Text.Data))
	})

	t.Run("text only", func(t *testing.T) {
		client := &fakeSES{}
		m := &sesMailer{client: client, source: "noreply@devevents.io", logger: discardLogger()}

		require.NoError(t, m.Send(ctx, "foo@bar.com", "Subject", "", "hi"))

		assert.Nil(t, client.input.Message.Body.Html)
		assert.Equal(t, "noreply@devevents.io", aws.ToString(client.input.Source))
	})

	t.Run("ses error", func(t *testing.T) {
		sesErr := errors.New("MessageRejected")
		m := &sesMailer{client: &fakeSES{err: sesErr}, source: "noreply@devevents.io", logger: discardLogger()}

		assert.ErrorIs(t, m.Send(ctx, "foo@bar.com", "s", "h", "t"), sesErr)
	})
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name     string
		config   MailerConfig
		wantType any
		wantErr  bool
	}{
		{name: "noop", config: MailerConfig{Provider: "noop"}, wantType: &noopMailer{}},
		{name: "empty", config: MailerConfig{}, wantType: &noopMailer{}},
		{name: "unknown falls back to noop", config: MailerConfig{Provider: "sendgrid"}, wantType: &noopMailer{}},
		{name: "ses", config: MailerConfig{Provider: "ses", FromAddress: "noreply@devevents.io", SES: SESConfig{Region: "us-east-1"}}, wantType: &sesMailer{}},
		{name: "ses without from address", config: MailerConfig{Provider: "ses"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.config, discardLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, m)
			if noop, ok := m.(*noopMailer); ok {
				assert.NoError(t, noop.Send(context.Background(), "a@b.co", "s", "h", "t"))
			}
		})
	}
}

func TestTemplateRenderer_BookingConfirmation(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	data := &domain.BookingConfirmationEmailData{
		Email:      "foo@bar.com",
		EventTitle: "React <Summit>",
		EventSlug:  "react-summit",
		Date:       "2025-06-13",
		Time:       "9:00 AM",
		Venue:      "Kromhouthal",
		Location:   "Amsterdam",
		Mode:       domain.EventModeHybrid,
	}

	subject, html, text, err := r.Render("booking_confirmation", data)

	require.NoError(t, err)
	assert.Equal(t, "You're booked for React <Summit>", subject)
	assert.Contains(t, html, "React &lt;Summit&gt;")
	assert.Contains(t, html, "2025-06-13")
	assert.Contains(t, text, "Time:     9:00 AM")
	assert.Contains(t, text, "/events/react-summit")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, _, _, err = r.Render("welcome", nil)

	assert.Error(t, err)
}
