package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturas-api/internal/application/billing"
	"github.com/jhoicas/Facturas-api/internal/application/dto"
	"github.com/jhoicas/Facturas-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturas-api/internal/domain/billing"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserA = "00000000-0000-0000-0000-00000000000a"
	testUserB = "00000000-0000-0000-0000-00000000000b"
)

type fixture struct {
	uc         *billing.InvoiceUseCase
	clients    *memClientRepo
	invoices   *memInvoiceRepo
	settings   *memSettingsRepo
	clientAcme string // cliente de testUserA
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clients := newMemClientRepo()
	invoices := newMemInvoiceRepo()
	settings := newMemSettingsRepo(testDefaults())
	runner := &memTxRunner{invoiceRepo: invoices, settingsRepo: settings}
	uc := billing.NewInvoiceUseCase(runner, clients, invoices, settings, testDefaults())

	acme := &entity.Client{
		ID:      uuid.New().String(),
		UserID:  testUserA,
		Name:    "Acme",
		Country: "DE",
	}
	require.NoError(t, clients.Create(acme))
	return &fixture{uc: uc, clients: clients, invoices: invoices, settings: settings, clientAcme: acme.ID}
}

const dateLayout = "2006-01-02"

// fechas relativas a hoy para que una factura sent no se lea overdue
func consultingRequest(clientID string) dto.CreateInvoiceRequest {
	rate := decimal.NewFromFloat(0.19)
	today := time.Now()
	return dto.CreateInvoiceRequest{
		ClientID:  clientID,
		IssueDate: today.Format(dateLayout),
		DueDate:   today.AddDate(0, 0, 14).Format(dateLayout),
		TaxRate:   &rate,
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: dec("10"), UnitPrice: dec("50.00")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateInvoice
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: Acme, 10 x 50.00 al 19% -> 500 / 95 / 595, draft.
func TestCreateInvoice_EscenarioAcme(t *testing.T) {
	f := newFixture(t)

	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)

	assert.True(t, inv.Subtotal.Equal(dec("500.00")), "subtotal fue %s", inv.Subtotal)
	assert.True(t, inv.TaxAmount.Equal(dec("95.00")), "impuesto fue %s", inv.TaxAmount)
	assert.True(t, inv.TotalAmount.Equal(dec("595.00")), "total fue %s", inv.TotalAmount)
	assert.Equal(t, entity.StatusDraft, inv.Status)
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	assert.Equal(t, "EUR", inv.Currency, "moneda por defecto de settings")
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].TotalPrice.Equal(dec("500.00")))
	assert.Nil(t, inv.SentAt)
	assert.Nil(t, inv.PaidAt)
}

// Dos creaciones seguidas emiten números consecutivos: INV-0001, INV-0002.
func TestCreateInvoice_NumerosConsecutivos(t *testing.T) {
	f := newFixture(t)

	first, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)
	second, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", first.InvoiceNumber)
	assert.Equal(t, "INV-0002", second.InvoiceNumber)
}

// El cliente debe pertenecer al usuario: ajeno responde NOT_FOUND, no FORBIDDEN.
func TestCreateInvoice_ClienteAjeno(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInvoice(context.Background(), testUserB, consultingRequest(f.clientAcme))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// dueDate anterior a issueDate es inválida.
func TestCreateInvoice_VencimientoAnteriorAEmision(t *testing.T) {
	f := newFixture(t)
	in := consultingRequest(f.clientAcme)
	in.DueDate = time.Now().AddDate(0, 0, -30).Format(dateLayout)

	_, err := f.uc.CreateInvoice(context.Background(), testUserA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// dueDate vacía se calcula con el plazo de pago de settings (14 días).
func TestCreateInvoice_VencimientoPorDefecto(t *testing.T) {
	f := newFixture(t)
	in := consultingRequest(f.clientAcme)
	in.DueDate = ""

	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, in)
	require.NoError(t, err)
	issue, err := time.Parse(dateLayout, inv.IssueDate)
	require.NoError(t, err)
	assert.Equal(t, issue.AddDate(0, 0, 14).Format(dateLayout), inv.DueDate)
}

// Moneda no ISO-4217 es inválida.
func TestCreateInvoice_MonedaInvalida(t *testing.T) {
	f := newFixture(t)
	in := consultingRequest(f.clientAcme)
	in.Currency = "EURO"

	_, err := f.uc.CreateInvoice(context.Background(), testUserA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Sin ítems o sin cliente no hay factura.
func TestCreateInvoice_EntradaIncompleta(t *testing.T) {
	f := newFixture(t)

	in := consultingRequest(f.clientAcme)
	in.Items = nil
	_, err := f.uc.CreateInvoice(context.Background(), testUserA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = consultingRequest("")
	_, err = f.uc.CreateInvoice(context.Background(), testUserA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Ítem con descripción vacía o cantidad negativa aborta sin escritura parcial.
func TestCreateInvoice_ItemsInvalidos(t *testing.T) {
	f := newFixture(t)

	in := consultingRequest(f.clientAcme)
	in.Items = []dto.InvoiceItemRequest{{Description: "  ", Quantity: dec("1"), UnitPrice: dec("10")}}
	_, err := f.uc.CreateInvoice(context.Background(), testUserA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in.Items = []dto.InvoiceItemRequest{{Description: "X", Quantity: dec("-1"), UnitPrice: dec("10")}}
	_, err = f.uc.CreateInvoice(context.Background(), testUserA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.uc.ListInvoices(testUserA, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "una creación fallida no deja facturas")
}

// Sin tasa explícita se usa la de settings (19% -> fracción 0.19).
func TestCreateInvoice_TasaPorDefecto(t *testing.T) {
	f := newFixture(t)
	in := consultingRequest(f.clientAcme)
	in.TaxRate = nil

	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, in)
	require.NoError(t, err)
	assert.True(t, inv.TaxRate.Equal(dec("0.19")), "tasa fue %s", inv.TaxRate)
	assert.True(t, inv.TaxAmount.Equal(dec("95.00")))
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateItems
// ──────────────────────────────────────────────────────────────────────────────

// Reemplazar ítems en draft recalcula todos los campos derivados.
func TestUpdateItems_RecalculaTotales(t *testing.T) {
	f := newFixture(t)
	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)

	updated, err := f.uc.UpdateItems(context.Background(), testUserA, inv.ID, dto.UpdateItemsRequest{
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: dec("5"), UnitPrice: dec("50.00")},
			{Description: "Workshop", Quantity: dec("1"), UnitPrice: dec("250.00")},
		},
	})
	require.NoError(t, err)

	assert.True(t, updated.Subtotal.Equal(dec("500.00")))
	assert.True(t, updated.TaxAmount.Equal(dec("95.00")))
	assert.True(t, updated.TotalAmount.Equal(dec("595.00")))
	require.Len(t, updated.Items, 2)
	assert.Equal(t, "Consulting", updated.Items[0].Description, "el orden de inserción se conserva")
	assert.Equal(t, "Workshop", updated.Items[1].Description)
	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber, "el número no cambia al editar ítems")
}

// Editar ítems después de send es una transición ilegal.
func TestUpdateItems_DespuesDeSend(t *testing.T) {
	f := newFixture(t)
	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)

	_, err = f.uc.Send(context.Background(), testUserA, inv.ID)
	require.NoError(t, err)

	_, err = f.uc.UpdateItems(context.Background(), testUserA, inv.ID, dto.UpdateItemsRequest{
		Items: []dto.InvoiceItemRequest{
			{Description: "Otro", Quantity: dec("1"), UnitPrice: dec("1.00")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// los ítems originales quedan intactos
	got, err := f.uc.GetInvoice(testUserA, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Consulting", got.Items[0].Description)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

// send sella SentAt; markPaid sella PaidAt; los montos no cambian.
func TestTransiciones_SellosYMontos(t *testing.T) {
	f := newFixture(t)
	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)

	sent, err := f.uc.Send(context.Background(), testUserA, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.Nil(t, sent.PaidAt)

	paid, err := f.uc.MarkPaid(context.Background(), testUserA, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paid.TotalAmount.Equal(inv.TotalAmount))
}

// Desde paid y cancelled toda transición falla.
func TestTransiciones_DesdeTerminales(t *testing.T) {
	f := newFixture(t)

	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)
	_, err = f.uc.Send(context.Background(), testUserA, inv.ID)
	require.NoError(t, err)
	_, err = f.uc.MarkPaid(context.Background(), testUserA, inv.ID)
	require.NoError(t, err)

	_, err = f.uc.Send(context.Background(), testUserA, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Cancel(context.Background(), testUserA, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.MarkPaid(context.Background(), testUserA, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	cancelled, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)
	_, err = f.uc.Cancel(context.Background(), testUserA, cancelled.ID)
	require.NoError(t, err)
	_, err = f.uc.Send(context.Background(), testUserA, cancelled.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// markPaid directo desde draft es ilegal.
func TestTransiciones_PagarSinEnviar(t *testing.T) {
	f := newFixture(t)
	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)

	_, err = f.uc.MarkPaid(context.Background(), testUserA, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

// Lecturas repetidas sin mutación devuelven lo mismo.
func TestGetInvoice_Idempotente(t *testing.T) {
	f := newFixture(t)
	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)

	a, err := f.uc.GetInvoice(testUserA, inv.ID)
	require.NoError(t, err)
	b, err := f.uc.GetInvoice(testUserA, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// Un usuario no ve facturas ajenas: NOT_FOUND, nunca los datos.
func TestGetInvoice_Ajena(t *testing.T) {
	f := newFixture(t)
	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)

	_, err = f.uc.GetInvoice(testUserB, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.uc.ListInvoices(testUserB, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// Una factura sent con vencimiento pasado se lee como overdue (derivado, no persistido).
func TestGetInvoice_OverdueDerivado(t *testing.T) {
	f := newFixture(t)
	in := consultingRequest(f.clientAcme)
	in.IssueDate = "2024-01-01"
	in.DueDate = "2024-01-15"

	inv, err := f.uc.CreateInvoice(context.Background(), testUserA, in)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, inv.Status, "draft vencida no es overdue")

	_, err = f.uc.Send(context.Background(), testUserA, inv.ID)
	require.NoError(t, err)

	got, err := f.uc.GetInvoice(testUserA, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOverdue, got.Status)

	// el estado almacenado sigue siendo sent: markPaid sigue permitido
	paid, err := f.uc.MarkPaid(context.Background(), testUserA, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, paid.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado
// ──────────────────────────────────────────────────────────────────────────────

// Solo draft y cancelled se borran; el número emitido no se recupera.
func TestDeleteInvoice_EstadosYNumeros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.uc.CreateInvoice(ctx, testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)
	require.NoError(t, f.uc.DeleteInvoice(ctx, testUserA, draft.ID))
	_, err = f.uc.GetInvoice(testUserA, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sent, err := f.uc.CreateInvoice(ctx, testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", sent.InvoiceNumber, "el número de la factura borrada no se reutiliza")
	_, err = f.uc.Send(ctx, testUserA, sent.ID)
	require.NoError(t, err)
	err = f.uc.DeleteInvoice(ctx, testUserA, sent.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.Cancel(ctx, testUserA, sent.ID)
	require.NoError(t, err)
	require.NoError(t, f.uc.DeleteInvoice(ctx, testUserA, sent.ID))
}

// Comprobación directa del guard de transición tipado.
func TestDeleteInvoice_ErrorTipado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.uc.CreateInvoice(ctx, testUserA, consultingRequest(f.clientAcme))
	require.NoError(t, err)
	_, err = f.uc.Send(ctx, testUserA, inv.ID)
	require.NoError(t, err)

	err = f.uc.DeleteInvoice(ctx, testUserA, inv.ID)
	var terr *domainbilling.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, entity.StatusSent, terr.From)
}
