package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
)

// newTestRepo connects to the database named by DATABASE_URL, or skips.
func newTestRepo(t *testing.T) *SQLCRepository {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping repository integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return New(pool)
}

func TestLedgerRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	accountID := uuid.New()
	emailID := uuid.New()
	vendorMailID := uuid.NewString() + "@mg.example.com"
	day := time.Now().UTC().Truncate(24 * time.Hour)

	err := r.CreateSend(ctx, domain.CreateSendParams{
		EmailID:      emailID,
		AccountID:    accountID,
		To:           "to@example.com",
		From:         "from@example.com",
		Subject:      "integration",
		VendorMailID: vendorMailID,
		Status:       domain.StatusQueued,
		Date:         day,
	})
	require.NoError(t, err)

	got, err := r.GetSend(ctx, accountID, emailID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusQueued, got.Status)
	require.Equal(t, "to@example.com", got.ToAddress)

	corrID, err := r.GetSendIDByVendorMailID(ctx, vendorMailID)
	require.NoError(t, err)
	require.Equal(t, emailID, corrID)

	n, err := r.UpdateSendStatus(ctx, emailID, domain.StatusDelivered, `{"recipient":"to@example.com"}`)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err = r.GetSend(ctx, accountID, emailID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, got.Status)

	items, err := r.ListSends(ctx, accountID, day.AddDate(0, 0, -1), day, 25, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	count, err := r.CountSends(ctx, accountID, day.AddDate(0, 0, -1), day)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	rows, err := r.SendStatsByDay(ctx, accountID, domain.StatusDelivered, day.AddDate(0, 0, -1), day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 1, rows[0].Count)
}

func TestTemplateRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	accountID := uuid.New()
	in := domain.TemplateInput{
		TemplateID:   "welcome-" + uuid.NewString()[:8],
		TemplateName: "Welcome",
		Subject:      "Hi {{.name}}",
		Template:     "<p>Hello {{.name}}</p>",
		Context:      map[string]any{"name": "friend"},
	}
	require.NoError(t, r.CreateTemplate(ctx, accountID, in))

	tpl, err := r.GetTemplate(ctx, accountID, in.TemplateID)
	require.NoError(t, err)
	require.Equal(t, in.Subject, tpl.Subject)
	require.NotEmpty(t, tpl.Context)

	in.Subject = "Hello {{.name}}"
	n, err := r.UpdateTemplate(ctx, accountID, in)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	items, err := r.ListTemplates(ctx, accountID, 25, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	n, err = r.DeleteTemplate(ctx, accountID, in.TemplateID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = r.DeleteTemplate(ctx, accountID, in.TemplateID)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}
