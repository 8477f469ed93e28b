// Package memstore keeps every collection in process memory. It applies the
// same unique constraints and conditional writes as the MongoDB repositories
// so that services behave identically on top of either.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"profast-backend-go/internal/db"
	"profast-backend-go/internal/models"
)

// Store holds all collections behind a single lock.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User // by email
	parcels  map[primitive.ObjectID]*models.Parcel
	payments map[primitive.ObjectID]*models.Payment
	events   []models.ParcelEvent
	riders   map[primitive.ObjectID]*models.RiderApplication
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		parcels:  make(map[primitive.ObjectID]*models.Parcel),
		payments: make(map[primitive.ObjectID]*models.Payment),
		riders:   make(map[primitive.ObjectID]*models.RiderApplication),
	}
}

func (s *Store) Users() db.UserRepository               { return userRepo{s} }
func (s *Store) Parcels() db.ParcelRepository           { return parcelRepo{s} }
func (s *Store) Payments() db.PaymentRepository         { return paymentRepo{s} }
func (s *Store) ParcelEvents() db.ParcelEventRepository { return eventRepo{s} }
func (s *Store) Riders() db.RiderRepository             { return riderRepo{s} }

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// users

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Email]; ok {
		return primitive.NilObjectID, fmt.Errorf("user '%s': %w", user.Email, db.ErrDuplicate)
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.s.users[user.Email] = clone(user)
	return user.ID, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, fmt.Errorf("user '%s': %w", email, db.ErrNotFound)
	}
	return clone(u), nil
}

func (r userRepo) TouchSignIn(_ context.Context, email string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[email]
	if !ok {
		return fmt.Errorf("user '%s': %w", email, db.ErrNotFound)
	}
	u.LastSignInAt = at
	return nil
}

func (r userRepo) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r userRepo) SetRole(_ context.Context, email string, role models.Role) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, fmt.Errorf("user '%s': %w", email, db.ErrNotFound)
	}
	u.Role = role
	return clone(u), nil
}

// parcels

type parcelRepo struct{ s *Store }

func (r parcelRepo) Create(_ context.Context, parcel *models.Parcel) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.parcels {
		if p.TrackingID == parcel.TrackingID {
			return primitive.NilObjectID, fmt.Errorf("tracking id '%s': %w", parcel.TrackingID, db.ErrDuplicate)
		}
	}
	if parcel.ID.IsZero() {
		parcel.ID = primitive.NewObjectID()
	}
	r.s.parcels[parcel.ID] = clone(parcel)
	return parcel.ID, nil
}

func (r parcelRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Parcel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.parcels[id]
	if !ok {
		return nil, fmt.Errorf("parcel %s: %w", id.Hex(), db.ErrNotFound)
	}
	return clone(p), nil
}

func (r parcelRepo) GetByTrackingID(_ context.Context, trackingID string) (*models.Parcel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.parcels {
		if p.TrackingID == trackingID {
			return clone(p), nil
		}
	}
	return nil, fmt.Errorf("tracking id '%s': %w", trackingID, db.ErrNotFound)
}

func (r parcelRepo) List(_ context.Context, f models.ParcelFilter) ([]*models.Parcel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Parcel, 0)
	for _, p := range r.s.parcels {
		if f.UserEmail != "" && p.UserEmail != f.UserEmail {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.DeliveryStatus != "" && p.DeliveryStatus != f.DeliveryStatus {
			continue
		}
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (r parcelRepo) UpdateUnpaid(_ context.Context, id primitive.ObjectID, d models.ParcelDetails, cost models.CostBreakdown, at time.Time) (*models.Parcel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parcels[id]
	if !ok || p.Status != models.PaymentStatusUnpaid {
		return nil, fmt.Errorf("unpaid parcel %s: %w", id.Hex(), db.ErrNotFound)
	}
	d.Apply(p)
	if d.ParcelType != models.ParcelTypeNonDocument {
		p.ParcelWeight = 0
	}
	p.Cost = cost.Total
	p.CostBreakdown = cost
	p.UpdatedAt = at
	return clone(p), nil
}

func (r parcelRepo) DeleteUnpaid(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parcels[id]
	if !ok || p.Status != models.PaymentStatusUnpaid {
		return fmt.Errorf("unpaid parcel %s: %w", id.Hex(), db.ErrNotFound)
	}
	delete(r.s.parcels, id)
	return nil
}

func (r parcelRepo) MarkPaid(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parcels[id]
	if !ok || p.Status != models.PaymentStatusUnpaid {
		return fmt.Errorf("unpaid parcel %s: %w", id.Hex(), db.ErrNotFound)
	}
	paidAt := at
	p.Status = models.PaymentStatusPaid
	p.PaidAt = &paidAt
	p.UpdatedAt = at
	return nil
}

func (r parcelRepo) AdvanceDelivery(_ context.Context, id primitive.ObjectID, from, to models.DeliveryStatus, at time.Time) (*models.Parcel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parcels[id]
	if !ok || p.Status != models.PaymentStatusPaid || p.DeliveryStatus != from {
		return nil, fmt.Errorf("parcel %s in %s: %w", id.Hex(), from, db.ErrNotFound)
	}
	p.DeliveryStatus = to
	p.UpdatedAt = at
	return clone(p), nil
}

// payments

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payments {
		if existing.TransactionID == payment.TransactionID || existing.ParcelID == payment.ParcelID {
			return primitive.NilObjectID, fmt.Errorf("payment '%s': %w", payment.TransactionID, db.ErrDuplicate)
		}
	}
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	r.s.payments[payment.ID] = clone(payment)
	return payment.ID, nil
}

func (r paymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.payments {
		if p.TransactionID == transactionID {
			return clone(p), nil
		}
	}
	return nil, fmt.Errorf("payment '%s': %w", transactionID, db.ErrNotFound)
}

func (r paymentRepo) List(_ context.Context, userEmail string) ([]*models.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Payment, 0)
	for _, p := range r.s.payments {
		if userEmail == "" || p.UserEmail == userEmail {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

// parcel events

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, event models.ParcelEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	r.s.events = append(r.s.events, event)
	return nil
}

func (r eventRepo) ListByParcel(_ context.Context, parcelID primitive.ObjectID) ([]*models.ParcelEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.ParcelEvent, 0)
	for i := range r.s.events {
		if r.s.events[i].ParcelID == parcelID {
			out = append(out, clone(&r.s.events[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// riders

type riderRepo struct{ s *Store }

func (r riderRepo) Create(_ context.Context, app *models.RiderApplication) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	app.Open = app.Status.Open()
	if app.Open {
		for _, existing := range r.s.riders {
			if existing.ApplicantEmail == app.ApplicantEmail && existing.Open {
				return primitive.NilObjectID, fmt.Errorf("rider '%s': %w", app.ApplicantEmail, db.ErrDuplicate)
			}
		}
	}
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	r.s.riders[app.ID] = clone(app)
	return app.ID, nil
}

func (r riderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.RiderApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	app, ok := r.s.riders[id]
	if !ok {
		return nil, fmt.Errorf("rider application %s: %w", id.Hex(), db.ErrNotFound)
	}
	return clone(app), nil
}

func (r riderRepo) ListByStatus(_ context.Context, status models.RiderStatus) ([]*models.RiderApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.RiderApplication, 0)
	for _, app := range r.s.riders {
		if app.Status == status {
			out = append(out, clone(app))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r riderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.RiderStatus, at time.Time) (*models.RiderApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	app, ok := r.s.riders[id]
	if !ok || app.Status != from {
		return nil, fmt.Errorf("rider application %s in %s: %w", id.Hex(), from, db.ErrNotFound)
	}
	app.Status = to
	app.Open = to.Open()
	app.UpdatedAt = at
	return clone(app), nil
}
