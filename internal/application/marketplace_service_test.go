package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
)

type fakePropertyRepo struct {
	items  map[string]*entity.PropertyListing
	nextID int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{items: map[string]*entity.PropertyListing{}}
}

func (r *fakePropertyRepo) Create(_ context.Context, p *entity.PropertyListing) error {
	r.nextID++
	p.ID = fmt.Sprintf("prop-%d", r.nextID)
	p.CreatedAt = time.Now()
	r.items[p.ID] = p
	return nil
}

func (r *fakePropertyRepo) GetByID(_ context.Context, id string) (*entity.PropertyListing, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakePropertyRepo) Update(_ context.Context, p *entity.PropertyListing) error {
	if _, ok := r.items[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[p.ID] = p
	return nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakePropertyRepo) List(_ context.Context, _ repository.ListingFilter) ([]*entity.PropertyListing, error) {
	out := make([]*entity.PropertyListing, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}

var _ repository.PropertyRepository = (*fakePropertyRepo)(nil)

type fakeVehicleRepo struct {
	items map[string]*entity.VehicleListing
}

func (r *fakeVehicleRepo) Create(_ context.Context, v *entity.VehicleListing) error {
	v.ID = fmt.Sprintf("veh-%d", len(r.items)+1)
	r.items[v.ID] = v
	return nil
}

func (r *fakeVehicleRepo) GetByID(_ context.Context, id string) (*entity.VehicleListing, error) {
	v, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *entity.VehicleListing) error {
	r.items[v.ID] = v
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *fakeVehicleRepo) List(_ context.Context, _ repository.ListingFilter) ([]*entity.VehicleListing, error) {
	return nil, nil
}

var _ repository.VehicleRepository = (*fakeVehicleRepo)(nil)

type fakeTxRepo struct {
	items map[string]*entity.Transaction
}

func (r *fakeTxRepo) Create(_ context.Context, t *entity.Transaction) error {
	t.ID = fmt.Sprintf("tx-%d", len(r.items)+1)
	t.CreatedAt = time.Now()
	r.items[t.ID] = t
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r *fakeTxRepo) ListByBuyer(_ context.Context, buyerID string, _, _ int) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, t := range r.items {
		if t.BuyerID == buyerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) UpdateStatus(_ context.Context, id string, status entity.PaymentStatus) error {
	t, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Status = status
	return nil
}

var _ repository.TransactionRepository = (*fakeTxRepo)(nil)

type fakeReviewRepo struct {
	items []*entity.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, rv *entity.Review) error {
	rv.ID = fmt.Sprintf("rev-%d", len(r.items)+1)
	r.items = append(r.items, rv)
	return nil
}

func (r *fakeReviewRepo) ListByTarget(_ context.Context, target string, _, _ int) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, rv := range r.items {
		if rv.TargetUserID == target {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ExistsByReviewerAndTarget(_ context.Context, reviewer, target string) (bool, error) {
	for _, rv := range r.items {
		if rv.ReviewerID == reviewer && rv.TargetUserID == target {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.ReviewRepository = (*fakeReviewRepo)(nil)

type fakeChatRepo struct {
	threads  map[string]*entity.ChatThread
	messages []*entity.ChatMessage
}

func (r *fakeChatRepo) GetOrCreateThread(_ context.Context, a, b string) (*entity.ChatThread, error) {
	if a > b {
		a, b = b, a
	}
	key := a + "|" + b
	if th, ok := r.threads[key]; ok {
		return th, nil
	}
	th := &entity.ChatThread{ID: fmt.Sprintf("th-%d", len(r.threads)+1), UserA: a, UserB: b}
	r.threads[key] = th
	return th, nil
}

func (r *fakeChatRepo) GetThread(_ context.Context, id string) (*entity.ChatThread, error) {
	for _, th := range r.threads {
		if th.ID == id {
			return th, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeChatRepo) AddMessage(_ context.Context, m *entity.ChatMessage) error {
	m.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	m.SentAt = time.Now()
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, threadID string, _, _ int) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, m := range r.messages {
		if m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.ChatRepository = (*fakeChatRepo)(nil)

type fakeNotifRepo struct {
	items []*entity.Notification
}

func (r *fakeNotifRepo) Create(_ context.Context, n *entity.Notification) error {
	n.ID = fmt.Sprintf("n-%d", len(r.items)+1)
	r.items = append(r.items, n)
	return nil
}

func (r *fakeNotifRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.items {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) MarkRead(_ context.Context, id, userID string) error {
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

var _ repository.NotificationRepository = (*fakeNotifRepo)(nil)

type fakeBrokerRepo struct {
	items map[string]*entity.BrokerProfile // keyed by user id
}

func (r *fakeBrokerRepo) Create(_ context.Context, b *entity.BrokerProfile) error {
	b.ID = fmt.Sprintf("brk-%d", len(r.items)+1)
	r.items[b.UserID] = b
	return nil
}

func (r *fakeBrokerRepo) GetByID(_ context.Context, id string) (*entity.BrokerProfile, error) {
	for _, b := range r.items {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeBrokerRepo) GetByUserID(_ context.Context, userID string) (*entity.BrokerProfile, error) {
	b, ok := r.items[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (r *fakeBrokerRepo) Update(_ context.Context, b *entity.BrokerProfile) error {
	r.items[b.UserID] = b
	return nil
}

func (r *fakeBrokerRepo) Delete(_ context.Context, id string) error {
	for uid, b := range r.items {
		if b.ID == id {
			delete(r.items, uid)
			return nil
		}
	}
	return repository.ErrNotFound
}

var _ repository.BrokerRepository = (*fakeBrokerRepo)(nil)

type marketFixture struct {
	svc      *MarketplaceService
	users    *fakeUserRepo
	props    *fakePropertyRepo
	txs      *fakeTxRepo
	reviews  *fakeReviewRepo
	chats    *fakeChatRepo
	notifs   *fakeNotifRepo
	brokers  *fakeBrokerRepo
	listings *ListingService
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()
	users := newFakeUserRepo()
	props := newFakePropertyRepo()
	vehicles := &fakeVehicleRepo{items: map[string]*entity.VehicleListing{}}
	txs := &fakeTxRepo{items: map[string]*entity.Transaction{}}
	reviews := &fakeReviewRepo{}
	chats := &fakeChatRepo{threads: map[string]*entity.ChatThread{}}
	notifs := &fakeNotifRepo{}
	brokers := &fakeBrokerRepo{items: map[string]*entity.BrokerProfile{}}

	listings := NewListingService(props, vehicles, nil, "", nil, "", quietLogger())
	svc := &MarketplaceService{
		Users:         users,
		Brokers:       brokers,
		Transactions:  txs,
		Reviews:       reviews,
		Chats:         chats,
		Notifications: notifs,
		Listings:      listings,
		Logger:        quietLogger(),
	}
	return &marketFixture{svc: svc, users: users, props: props, txs: txs, reviews: reviews, chats: chats, notifs: notifs, brokers: brokers, listings: listings}
}

func (f *marketFixture) addUser(id string, role entity.Role) *entity.User {
	return f.users.add(&entity.User{ID: id, Email: id + "@example.com", FullName: id, Role: role, Verified: true})
}

func TestCreateTransactionUsesListingPrice(t *testing.T) {
	f := newMarketFixture(t)
	f.addUser("seller", entity.RoleSeller)
	f.addUser("buyer", entity.RoleBuyer)

	p, err := f.listings.CreateProperty(context.Background(), "seller", PropertyInput{
		Title: "House", PropertyType: entity.PropertyHouse, Price: 250000, Location: "Addis Ababa",
	})
	require.NoError(t, err)

	tx, err := f.svc.CreateTransaction(context.Background(), "buyer", TransactionInput{
		ListingID: p.ID, ListingKind: entity.KindProperty, Gateway: entity.GatewayChapa,
	})
	require.NoError(t, err)
	assert.Equal(t, 250000.0, tx.Amount)
	assert.Equal(t, entity.PaymentPending, tx.Status)
	assert.NotEmpty(t, tx.Reference)
}

func TestCreateTransactionOwnListingForbidden(t *testing.T) {
	f := newMarketFixture(t)
	f.addUser("seller", entity.RoleSeller)

	p, err := f.listings.CreateProperty(context.Background(), "seller", PropertyInput{
		Title: "House", PropertyType: entity.PropertyHouse, Price: 100, Location: "X",
	})
	require.NoError(t, err)

	_, err = f.svc.CreateTransaction(context.Background(), "seller", TransactionInput{
		ListingID: p.ID, ListingKind: entity.KindProperty, Gateway: entity.GatewayStripe,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompleteTransactionNotifiesBuyer(t *testing.T) {
	f := newMarketFixture(t)
	f.addUser("seller", entity.RoleSeller)
	f.addUser("buyer", entity.RoleBuyer)

	p, err := f.listings.CreateProperty(context.Background(), "seller", PropertyInput{
		Title: "House", PropertyType: entity.PropertyHouse, Price: 100, Location: "X",
	})
	require.NoError(t, err)
	tx, err := f.svc.CreateTransaction(context.Background(), "buyer", TransactionInput{
		ListingID: p.ID, ListingKind: entity.KindProperty, Gateway: entity.GatewayTelebirr,
	})
	require.NoError(t, err)

	done, err := f.svc.CompleteTransaction(context.Background(), tx.ID, "buyer", entity.PaymentSuccess)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentSuccess, done.Status)

	notifs, err := f.svc.ListNotifications(context.Background(), "buyer", false, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, entity.NotifyTransactionSuccess, notifs[0].Type)

	// settling twice is a no-op
	again, err := f.svc.CompleteTransaction(context.Background(), tx.ID, "buyer", entity.PaymentFailed)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentSuccess, again.Status)
}

func TestCreateReviewGuards(t *testing.T) {
	f := newMarketFixture(t)
	f.addUser("alice", entity.RoleBuyer)
	f.addUser("bob", entity.RoleSeller)

	_, err := f.svc.CreateReview(context.Background(), "alice", ReviewInput{TargetUserID: "alice", Rating: 5})
	assert.ErrorIs(t, err, ErrSelfReview)

	_, err = f.svc.CreateReview(context.Background(), "alice", ReviewInput{TargetUserID: "ghost", Rating: 5})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.CreateReview(context.Background(), "alice", ReviewInput{TargetUserID: "bob", Rating: 4, Comment: "great"})
	require.NoError(t, err)

	_, err = f.svc.CreateReview(context.Background(), "alice", ReviewInput{TargetUserID: "bob", Rating: 2})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	got, err := f.svc.ListReviews(context.Background(), "bob", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Rating)
}

func TestChatThreadIsSharedBetweenDirections(t *testing.T) {
	f := newMarketFixture(t)
	f.addUser("alice", entity.RoleBuyer)
	f.addUser("bob", entity.RoleSeller)

	m1, err := f.svc.SendMessage(context.Background(), "alice", "bob", "hi")
	require.NoError(t, err)
	m2, err := f.svc.SendMessage(context.Background(), "bob", "alice", "hello")
	require.NoError(t, err)
	assert.Equal(t, m1.ThreadID, m2.ThreadID)

	msgs, err := f.svc.ListMessages(context.Background(), m1.ThreadID, "alice", 10, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	f.addUser("eve", entity.RoleBuyer)
	_, err = f.svc.ListMessages(context.Background(), m1.ThreadID, "eve", 10, 0)
	assert.ErrorIs(t, err, ErrNotThreadMember)
}

func TestBrokerProfileLifecycle(t *testing.T) {
	f := newMarketFixture(t)
	f.addUser("broker", entity.RoleBroker)
	f.addUser("buyer", entity.RoleBuyer)

	_, err := f.svc.CreateBrokerProfile(context.Background(), "buyer", BrokerInput{LicenseNumber: "L-1"})
	assert.ErrorIs(t, err, ErrForbidden)

	b, err := f.svc.CreateBrokerProfile(context.Background(), "broker", BrokerInput{LicenseNumber: "L-1", YearsExperience: 3})
	require.NoError(t, err)
	assert.Equal(t, "broker", b.UserID)

	_, err = f.svc.CreateBrokerProfile(context.Background(), "broker", BrokerInput{LicenseNumber: "L-2"})
	assert.ErrorIs(t, err, ErrBrokerExists)

	upd, err := f.svc.UpdateBrokerProfile(context.Background(), "broker", BrokerInput{Bio: "experienced"})
	require.NoError(t, err)
	assert.Equal(t, "experienced", upd.Bio)
	assert.Equal(t, "L-1", upd.LicenseNumber)

	require.NoError(t, f.svc.DeleteBrokerProfile(context.Background(), "broker"))
	_, err = f.svc.GetBrokerProfile(context.Background(), "broker")
	assert.ErrorIs(t, err, ErrBrokerNotFound)
}

func TestListingOwnershipChecks(t *testing.T) {
	f := newMarketFixture(t)
	f.addUser("owner", entity.RoleSeller)
	f.addUser("intruder", entity.RoleSeller)

	p, err := f.listings.CreateProperty(context.Background(), "owner", PropertyInput{
		Title: "Flat", PropertyType: entity.PropertyApartment, Price: 900, Location: "Bole",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ListingAvailable, p.Status)

	_, err = f.listings.UpdateProperty(context.Background(), p.ID, "intruder", PropertyInput{Title: "Mine now"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.listings.DeleteProperty(context.Background(), p.ID, "intruder")
	assert.ErrorIs(t, err, ErrForbidden)

	upd, err := f.listings.UpdateProperty(context.Background(), p.ID, "owner", PropertyInput{Status: entity.ListingSold})
	require.NoError(t, err)
	assert.Equal(t, entity.ListingSold, upd.Status)

	require.NoError(t, f.listings.DeleteProperty(context.Background(), p.ID, "owner"))
	_, err = f.listings.GetProperty(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}
