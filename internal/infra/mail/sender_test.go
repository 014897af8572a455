package mail

import (
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func testClient() *entity.Client {
	pkg := "Premium"
	return &entity.Client{
		ID:                  "c-1",
		CompanyName:         "Acme <Ltda>",
		SubscriptionPackage: &pkg,
		MonthlyValue:        decimal.NewNullDecimal(decimal.RequireFromString("2500.5")),
		ContractStartDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderClientAssigned(t *testing.T) {
	manager := &entity.UserProfile{ID: "m-1", FirstName: "Ana", LastName: "Lima", Email: "ana@example.com"}

	body, err := renderClientAssigned(manager, testClient())

	require.NoError(t, err)
	assert.Contains(t, body, "Olá Ana Lima")
	assert.Contains(t, body, "Acme &lt;Ltda&gt;")
	assert.Contains(t, body, "Premium")
	assert.Contains(t, body, "2500.50")
	assert.Contains(t, body, "10/03/2025")
}

func TestRenderClientAssigned_OptionalFieldsOmitted(t *testing.T) {
	client := &entity.Client{ID: "c-2", CompanyName: "Beta", ContractStartDate: time.Now()}

	body, err := renderClientAssigned(&entity.UserProfile{}, client)

	require.NoError(t, err)
	assert.NotContains(t, body, "Pacote")
	assert.NotContains(t, body, "Valor mensal")
	assert.Contains(t, body, "Olá Unassigned")
}

func TestNotifyClientAssigned_Sends(t *testing.T) {
	d := &captureDialer{}
	s := &EmailSender{From: "crm@example.com", dialer: d}
	manager := &entity.UserProfile{ID: "m-1", FirstName: "Ana", Email: "ana@example.com"}

	err := s.NotifyClientAssigned(context.Background(), manager, testClient())

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"crm@example.com"}, d.sent[0].GetHeader("From"))
	subject := d.sent[0].GetHeader("Subject")
	require.Len(t, subject, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject[0])
	require.NoError(t, err)
	assert.Equal(t, "Novo cliente: Acme <Ltda> 🚀", decoded)
}

func TestNotifyClientAssigned_SkipsWithoutEmail(t *testing.T) {
	d := &captureDialer{}
	s := &EmailSender{dialer: d}

	err := s.NotifyClientAssigned(context.Background(), &entity.UserProfile{ID: "m-1"}, testClient())

	require.NoError(t, err)
	assert.Empty(t, d.sent)
}

func TestNotifyClientAssigned_WrapsSMTPError(t *testing.T) {
	d := &captureDialer{err: errors.New("connection refused")}
	s := &EmailSender{dialer: d}

	err := s.NotifyClientAssigned(context.Background(), &entity.UserProfile{Email: "a@b.c"}, testClient())

	assert.ErrorContains(t, err, "connection refused")
}
