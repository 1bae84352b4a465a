package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgo/gymgo/pkg/email"
	"github.com/gymgo/gymgo/svc/notification"
	"github.com/gymgo/gymgo/svc/organization"
	"github.com/gymgo/gymgo/svc/quota"
	"github.com/gymgo/gymgo/svc/usage"
)

type recordingEmail struct {
	sent []email.SendEmailParams
	err  error
}

func (r *recordingEmail) SendEmail(_ context.Context, p email.SendEmailParams) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, p)
	return nil
}

type recordingWhatsApp struct {
	sent []notification.WhatsAppMessage
	err  error
}

func (r *recordingWhatsApp) SendMessage(_ context.Context, m notification.WhatsAppMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

type fixture struct {
	svc      *notification.Service
	orgID    uuid.UUID
	email    *recordingEmail
	whatsapp *recordingWhatsApp
	engine   *quota.Engine
}

func newFixture(t *testing.T, tier quota.Tier, features map[quota.Feature]bool) *fixture {
	t.Helper()
	ctx := context.Background()

	orgs := organization.NewMemStore()
	org := &organization.Organization{Slug: "test-gym", Name: "Test Gym", Tier: tier, Features: features}
	require.NoError(t, orgs.Create(ctx, org))

	engine, err := quota.NewEngine(ctx, quota.DefaultSource(), organization.NewPlanSource(orgs), quota.NewRegistry(), usage.NewMemStore())
	require.NoError(t, err)

	em := &recordingEmail{}
	wa := &recordingWhatsApp{}
	return &fixture{
		svc:      notification.NewService(engine, em, wa),
		orgID:    org.ID,
		email:    em,
		whatsapp: wa,
		engine:   engine,
	}
}

func validMessage() notification.WhatsAppMessage {
	return notification.WhatsAppMessage{To: "+5215512345678", Body: "Tu clase empieza en una hora."}
}

func TestSendWhatsApp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("delivers and consumes quota", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierGrowth, nil)

		require.NoError(t, f.svc.SendWhatsApp(ctx, f.orgID, validMessage()))
		require.Len(t, f.whatsapp.sent, 1)

		check := f.engine.CheckWhatsAppLimit(ctx, f.orgID)
		assert.EqualValues(t, 1, check.Current)
	})

	t.Run("denied when plan lacks the feature", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter, nil)

		err := f.svc.SendWhatsApp(ctx, f.orgID, validMessage())
		require.Error(t, err)
		assert.ErrorIs(t, err, notification.ErrFeatureDisabled)
		assert.Empty(t, f.whatsapp.sent)
	})

	t.Run("organization override enables the feature", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter, map[quota.Feature]bool{quota.FeatureWhatsApp: true})

		require.NoError(t, f.svc.SendWhatsApp(ctx, f.orgID, validMessage()))
		require.Len(t, f.whatsapp.sent, 1)
	})

	t.Run("denied at the monthly ceiling without delivering", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierGrowth, nil) // 1000 messages per month

		for range 1000 {
			require.True(t, f.engine.ConsumeWhatsAppMessage(ctx, f.orgID).Success)
		}

		err := f.svc.SendWhatsApp(ctx, f.orgID, validMessage())
		require.Error(t, err)
		assert.ErrorIs(t, err, quota.ErrLimitExceeded)
		assert.Empty(t, f.whatsapp.sent)
	})

	t.Run("provider failure does not burn quota", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierGrowth, nil)
		f.whatsapp.err = errors.New("provider unavailable")

		err := f.svc.SendWhatsApp(ctx, f.orgID, validMessage())
		require.Error(t, err)
		assert.ErrorIs(t, err, notification.ErrDeliveryFailed)

		check := f.engine.CheckWhatsAppLimit(ctx, f.orgID)
		assert.EqualValues(t, 0, check.Current)
	})

	t.Run("rejects malformed message before any check", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierGrowth, nil)

		err := f.svc.SendWhatsApp(ctx, f.orgID, notification.WhatsAppMessage{To: "555-1234", Body: "hola"})
		assert.ErrorIs(t, err, notification.ErrInvalidMessage)
	})
}

func TestSendEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	params := email.SendEmailParams{
		SendTo:   "ana@example.com",
		Subject:  "Bienvenida",
		BodyHTML: "<p>Hola</p>",
	}

	t.Run("delivers within quota", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter, nil)

		require.NoError(t, f.svc.SendEmail(ctx, f.orgID, params))
		require.Len(t, f.email.sent, 1)
		assert.Equal(t, "ana@example.com", f.email.sent[0].SendTo)
	})

	t.Run("denied at the monthly ceiling", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter, nil) // 100 emails per month

		for range 100 {
			require.True(t, f.engine.ConsumeEmail(ctx, f.orgID).Success)
		}

		err := f.svc.SendEmail(ctx, f.orgID, params)
		require.Error(t, err)
		assert.ErrorIs(t, err, quota.ErrLimitExceeded)

		var limitErr *quota.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.EqualValues(t, 100, limitErr.Result.Current)
		assert.Empty(t, f.email.sent)
	})

	t.Run("provider failure surfaces and preserves quota", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter, nil)
		f.email.err = errors.New("smtp down")

		err := f.svc.SendEmail(ctx, f.orgID, params)
		assert.ErrorIs(t, err, notification.ErrDeliveryFailed)

		check := f.engine.CheckEmailLimit(ctx, f.orgID)
		assert.EqualValues(t, 0, check.Current)
	})
}

func TestWhatsAppMessageValidate(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name    string
		msg     notification.WhatsAppMessage
		wantErr bool
	}{
		{"valid E.164", notification.WhatsAppMessage{To: "+5215512345678", Body: "hola"}, false},
		{"missing plus", notification.WhatsAppMessage{To: "5215512345678", Body: "hola"}, true},
		{"too short", notification.WhatsAppMessage{To: "+52123", Body: "hola"}, true},
		{"empty body", notification.WhatsAppMessage{To: "+5215512345678"}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.msg.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, notification.ErrInvalidMessage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
