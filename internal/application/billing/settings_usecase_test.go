package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturas-api/internal/application/billing"
	"github.com/jhoicas/Facturas-api/internal/application/dto"
	"github.com/jhoicas/Facturas-api/internal/domain"
)

// El primer Get materializa los defaults y los persiste.
func TestSettingsGet_MaterializaDefaults(t *testing.T) {
	repo := newMemSettingsRepo(testDefaults())
	uc := billing.NewSettingsUseCase(repo, testDefaults())

	got, err := uc.Get(testUserA)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "INV", got.InvoicePrefix)
	assert.Equal(t, 14, got.PaymentTermsDays)
	assert.Equal(t, 1, got.NextInvoiceNumber)
	assert.True(t, got.DefaultTaxRate.Equal(dec("19")))

	stored, err := repo.Get(testUserA)
	require.NoError(t, err)
	require.NotNil(t, stored, "el Get sembró la fila")
}

func TestSettingsUpdate_CamposParciales(t *testing.T) {
	repo := newMemSettingsRepo(testDefaults())
	uc := billing.NewSettingsUseCase(repo, testDefaults())

	rate := dec("7")
	days := 30
	got, err := uc.Update(testUserA, dto.UpdateSettingsRequest{
		DefaultTaxRate:   &rate,
		Currency:         "USD",
		InvoicePrefix:    "RE",
		PaymentTermsDays: &days,
	})
	require.NoError(t, err)
	assert.True(t, got.DefaultTaxRate.Equal(dec("7")))
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "RE", got.InvoicePrefix)
	assert.Equal(t, 30, got.PaymentTermsDays)

	// un update vacío no toca nada
	same, err := uc.Update(testUserA, dto.UpdateSettingsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "USD", same.Currency)
	assert.Equal(t, "RE", same.InvoicePrefix)
}

func TestSettingsUpdate_Invalidos(t *testing.T) {
	uc := billing.NewSettingsUseCase(newMemSettingsRepo(testDefaults()), testDefaults())

	_, err := uc.Update(testUserA, dto.UpdateSettingsRequest{Currency: "EURO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rate := dec("-1")
	_, err = uc.Update(testUserA, dto.UpdateSettingsRequest{DefaultTaxRate: &rate})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	days := -5
	_, err = uc.Update(testUserA, dto.UpdateSettingsRequest{PaymentTermsDays: &days})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Update nunca pisa el contador, aunque ya se hayan emitido números.
func TestSettingsUpdate_NoTocaElContador(t *testing.T) {
	repo := newMemSettingsRepo(testDefaults())
	uc := billing.NewSettingsUseCase(repo, testDefaults())

	seq := billing.NewSequencer(repo)
	_, err := seq.Next(testUserA)
	require.NoError(t, err)
	_, err = seq.Next(testUserA)
	require.NoError(t, err)

	got, err := uc.Update(testUserA, dto.UpdateSettingsRequest{InvoicePrefix: "RE"})
	require.NoError(t, err)
	assert.Equal(t, 3, got.NextInvoiceNumber, "dos emitidos, el próximo es el 3")

	// el prefijo nuevo aplica solo a números futuros
	number, err := seq.Next(testUserA)
	require.NoError(t, err)
	assert.Equal(t, "RE-0003", number)
}
