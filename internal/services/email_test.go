package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevents/internal/domain"
)

func TestEmailService_SendBookingConfirmation(t *testing.T) {
	ctx := context.Background()
	data := &domain.BookingConfirmationEmailData{Email: "foo@bar.com", EventTitle: "React Summit 2025", EventSlug: "react-summit-2025"}

	t.Run("renders and sends", func(t *testing.T) {
		mailer := &fakeMailer{}
		renderer := &fakeRenderer{}
		svc := NewEmailService(mailer, renderer, discardLogger())

		require.NoError(t, svc.SendBookingConfirmation(ctx, data))

		assert.Equal(t, "booking_confirmation", renderer.lastName)
		assert.Equal(t, "foo@bar.com", mailer.lastTo)
		assert.Equal(t, "subject", mailer.lastSubject)
		assert.Equal(t, "<p>html</p>", mailer.lastHTML)
		assert.Equal(t, "text", mailer.lastText)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{}, discardLogger())

		assert.Error(t, svc.SendBookingConfirmation(ctx, nil))
	})

	t.Run("render error", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer, &fakeRenderer{err: errors.New("missing template")}, discardLogger())

		err := svc.SendBookingConfirmation(ctx, data)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "render")
		assert.Empty(t, mailer.lastTo)
	})

	t.Run("send error", func(t *testing.T) {
		sendErr := errors.New("ses: throttled")
		svc := NewEmailService(&fakeMailer{err: sendErr}, &fakeRenderer{}, discardLogger())

		assert.ErrorIs(t, svc.SendBookingConfirmation(ctx, data), sendErr)
	})
}
