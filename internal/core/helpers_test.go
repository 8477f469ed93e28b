package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profast-backend-go/internal/assets"
	"profast-backend-go/internal/db/memstore"
	"profast-backend-go/internal/models"
)

// 2025-10-14T00:00:00Z
func fixedNow() time.Time { return time.UnixMilli(1760400000000).UTC() }

var (
	alice = Caller{UID: "uid-alice", Email: "alice@example.com", Role: models.RoleUser}
	bob   = Caller{UID: "uid-bob", Email: "bob@example.com", Role: models.RoleUser}
	admin = Caller{UID: "uid-admin", Email: "admin@example.com", Role: models.RoleAdmin}
)

func testCoverage(t *testing.T) CoverageService {
	t.Helper()
	divisions, warehouses, err := assets.Coverage("")
	require.NoError(t, err)
	cov, err := NewCoverageService(divisions, warehouses)
	require.NoError(t, err)
	return cov
}

func documentDetails(fromRegion, toRegion string) models.ParcelDetails {
	return models.ParcelDetails{
		ParcelName:        "Contract",
		ParcelType:        models.ParcelTypeDocument,
		SenderName:        "Alice",
		SenderContact:     "01700000000",
		SenderRegion:      fromRegion,
		SenderWarehouse:   fromRegion,
		SenderAddress:     "House 1, Road 2",
		ReceiverName:      "Rahim",
		ReceiverContact:   "01800000000",
		ReceiverRegion:    toRegion,
		ReceiverWarehouse: toRegion,
		ReceiverAddress:   "Flat 3B",
	}
}

func boxDetails(weight float64, fromRegion, toRegion string) models.ParcelDetails {
	d := documentDetails(fromRegion, toRegion)
	d.ParcelName = "Books"
	d.ParcelType = models.ParcelTypeNonDocument
	d.ParcelWeight = weight
	return d
}

type fixture struct {
	store    *memstore.Store
	events   EventRecorder
	parcels  ParcelService
	payments PaymentService
	gateway  *fakeGateway
}

func newFixture(t *testing.T, withGateway bool) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := memstore.New()
	events := NewEventRecorder(store.ParcelEvents(), logger)
	f := &fixture{
		store:   store,
		events:  events,
		parcels: NewParcelService(store.Parcels(), events, testCoverage(t), logger),
	}
	var gw PaymentGateway
	if withGateway {
		f.gateway = newFakeGateway()
		gw = f.gateway
	}
	f.payments = NewPaymentService(store.Payments(), store.Parcels(), gw, events, "bdt", logger)
	return f
}

// fakeGateway is an in-process PaymentGateway.
type fakeGateway struct {
	intents map[string]*Intent
	webhook *WebhookEvent
	err     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]*Intent)}
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	id := "pi_" + metadata["parcelId"]
	in := &Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       amount,
		Currency:     currency,
		Metadata:     metadata,
	}
	g.intents[id] = in
	return in, nil
}

func (g *fakeGateway) GetIntent(_ context.Context, id string) (*Intent, error) {
	if in, ok := g.intents[id]; ok {
		return in, nil
	}
	return nil, errors.New("no such payment_intent")
}

func (g *fakeGateway) ParseWebhook(_ []byte, signature string) (*WebhookEvent, error) {
	if signature != "valid" {
		return nil, errors.New("bad signature")
	}
	return g.webhook, nil
}

// succeed marks the intent as captured by the card network.
func (g *fakeGateway) succeed(id string) *Intent {
	in := g.intents[id]
	in.Status = IntentSucceeded
	in.PaymentMethod = "pm_card_visa"
	return in
}
