package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "estatehub/internal/models/db_models"
	"estatehub/internal/search"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...)
	textBytes = []byte("just some plain text, not an image at all")
)

// fakeListingRepo keeps listings in insertion order and evaluates search
// predicates in memory.
type fakeListingRepo struct {
	mu          sync.Mutex
	rows        map[uuid.UUID]*dbm.Listing
	order       []uuid.UUID
	searchCalls int
	createErr   error
	updateErr   error
	// beforeUpdate runs ahead of Update, standing in for a concurrent writer.
	beforeUpdate func()
}

func newFakeListingRepo(listings ...dbm.Listing) *fakeListingRepo {
	r := &fakeListingRepo{rows: map[uuid.UUID]*dbm.Listing{}}
	for i := range listings {
		l := listings[i]
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		r.rows[l.ID] = &l
		r.order = append(r.order, l.ID)
	}
	return r
}

func (r *fakeListingRepo) Create(_ context.Context, l *dbm.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *l
	r.rows[l.ID] = &cp
	r.order = append(r.order, l.ID)
	return nil
}

func (r *fakeListingRepo) Update(_ context.Context, l *dbm.Listing) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	cur, ok := r.rows[l.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// Only the edit columns are written; counters, owner and status keep
	// their stored values.
	cp := *l
	cp.OwnerID, cp.OwnerKind, cp.Status = cur.OwnerID, cur.OwnerKind, cur.Status
	cp.ViewCount, cp.InquiryCount = cur.ViewCount, cur.InquiryCount
	cp.CreatedAt = cur.CreatedAt
	r.rows[l.ID] = &cp
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *fakeListingRepo) GetByID(_ context.Context, id uuid.UUID) (*dbm.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	cp.Images = append([]string(nil), l.Images...)
	return &cp, nil
}

func (r *fakeListingRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]dbm.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dbm.Listing
	for _, id := range ids {
		if l, ok := r.rows[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) all(keep func(*dbm.Listing) bool) []dbm.Listing {
	var out []dbm.Listing
	for _, id := range r.order {
		if l, ok := r.rows[id]; ok && keep(l) {
			out = append(out, *l)
		}
	}
	return out
}

func (r *fakeListingRepo) List(_ context.Context, listingType string, page, pageSize int) ([]dbm.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.all(func(l *dbm.Listing) bool {
		return l.Status == dbm.ListingStatusActive && (listingType == "" || string(l.ListingType) == listingType)
	})
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], nil
}

func (r *fakeListingRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, activeOnly bool) ([]dbm.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all(func(l *dbm.Listing) bool {
		return l.OwnerID == ownerID && (!activeOnly || l.Status == dbm.ListingStatusActive)
	}), nil
}

func (r *fakeListingRepo) Search(_ context.Context, preds []search.Predicate) ([]dbm.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchCalls++
	var evalErr error
	rows := r.all(func(l *dbm.Listing) bool {
		if l.Status != dbm.ListingStatusActive {
			return false
		}
		for _, p := range preds {
			ok, err := matches(l, p)
			if err != nil {
				evalErr = err
				return false
			}
			if !ok {
				return false
			}
		}
		return true
	})
	return rows, evalErr
}

func fieldValue(l *dbm.Listing, field string) (any, error) {
	if strings.HasPrefix(field, "features.") {
		f := l.Features.Data()
		switch strings.TrimPrefix(field, "features.") {
		case "pool":
			return f.Pool, nil
		case "garden":
			return f.Garden, nil
		case "security":
			return f.Security, nil
		case "parking":
			return f.Parking, nil
		case "gym":
			return f.Gym, nil
		}
		return false, nil
	}
	switch field {
	case search.FieldListingType:
		return string(l.ListingType), nil
	case search.FieldPrice:
		return l.Price, nil
	case search.FieldPropertyType:
		return l.PropertyType, nil
	case search.FieldProvince:
		return l.Province, nil
	case search.FieldCategory:
		return l.Category, nil
	case search.FieldYearBuilt:
		return float64(l.YearBuilt), nil
	case search.FieldBedrooms:
		return float64(l.Bedrooms), nil
	case search.FieldBathrooms:
		return float64(l.Bathrooms), nil
	case search.FieldGarage:
		return float64(l.Garage), nil
	case search.FieldFurnished:
		return l.Furnished, nil
	}
	return nil, fmt.Errorf("unknown field %q", field)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func matches(l *dbm.Listing, p search.Predicate) (bool, error) {
	got, err := fieldValue(l, p.Field)
	if err != nil {
		return false, err
	}
	if p.Op == search.OpEq {
		if g, ok := toFloat(got); ok {
			w, _ := toFloat(p.Value)
			return g == w, nil
		}
		return got == p.Value, nil
	}
	g, ok1 := toFloat(got)
	w, ok2 := toFloat(p.Value)
	if !ok1 || !ok2 {
		return false, errors.New("ordered comparison on non-number")
	}
	if p.Op == search.OpGte {
		return g >= w, nil
	}
	return g <= w, nil
}

func (r *fakeListingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status dbm.ListingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Status = status
	return nil
}

func (r *fakeListingRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.ViewCount++
	return nil
}

func (r *fakeListingRepo) IncrementInquiries(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.InquiryCount++
	return nil
}

func (r *fakeListingRepo) get(id uuid.UUID) *dbm.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

type fakeAccountRepo struct {
	mu           sync.Mutex
	rows         map[uuid.UUID]*dbm.Account
	beforeUpdate func()
	avatarErr    error
}

func newFakeAccountRepo(accounts ...*dbm.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{rows: map[uuid.UUID]*dbm.Account{}}
	for _, a := range accounts {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		r.rows[a.ID] = a
	}
	return r
}

func (r *fakeAccountRepo) Insert(_ context.Context, a *dbm.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Email == a.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) UpdateProfile(_ context.Context, a *dbm.Account) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	return r.mutate(a.ID, func(cur *dbm.Account) {
		cur.Name, cur.Phone, cur.Bio, cur.AvatarURL = a.Name, a.Phone, a.Bio, a.AvatarURL
		cur.CompanyName, cur.LicenseNo, cur.Website = a.CompanyName, a.LicenseNo, a.Website
	})
}

func (r *fakeAccountRepo) LinkFirebaseUID(_ context.Context, id uuid.UUID, uid string) error {
	return r.mutate(id, func(cur *dbm.Account) { cur.FirebaseUID = uid })
}

func (r *fakeAccountRepo) FindById(_ context.Context, id uuid.UUID) (*dbm.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.SavedListingIDs = append([]string(nil), a.SavedListingIDs...)
	return &cp, nil
}

func (r *fakeAccountRepo) find(match func(*dbm.Account) bool) *dbm.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if match(a) {
			cp := *a
			return &cp
		}
	}
	return nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*dbm.Account, error) {
	return r.find(func(a *dbm.Account) bool { return a.Email == email }), nil
}

func (r *fakeAccountRepo) FindByFirebaseUID(_ context.Context, uid string) (*dbm.Account, error) {
	return r.find(func(a *dbm.Account) bool { return a.FirebaseUID != "" && a.FirebaseUID == uid }), nil
}

func (r *fakeAccountRepo) ListByKind(_ context.Context, kind string, page, pageSize int) ([]dbm.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dbm.Account
	for _, a := range r.rows {
		if kind == "" || a.Kind == kind {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeAccountRepo) mutate(id uuid.UUID, fn func(*dbm.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	fn(a)
	return nil
}

func (r *fakeAccountRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return r.mutate(id, func(a *dbm.Account) { a.PasswordHash = hash })
}

func (r *fakeAccountRepo) UpdateStatus(_ context.Context, id uuid.UUID, status dbm.AccountStatus) error {
	return r.mutate(id, func(a *dbm.Account) { a.Status = status })
}

func (r *fakeAccountRepo) SetAvatarURL(_ context.Context, id uuid.UUID, url string) error {
	if r.avatarErr != nil {
		return r.avatarErr
	}
	return r.mutate(id, func(a *dbm.Account) { a.AvatarURL = url })
}

func (r *fakeAccountRepo) SetSavedListings(_ context.Context, id uuid.UUID, ids []string) error {
	return r.mutate(id, func(a *dbm.Account) { a.SavedListingIDs = append([]string(nil), ids...) })
}

func (r *fakeAccountRepo) SetSubscription(_ context.Context, id uuid.UUID, s dbm.SubscriptionSnapshot) error {
	return r.mutate(id, func(a *dbm.Account) { a.Subscription = s })
}

func (r *fakeAccountRepo) ConsumeListingSlot(_ context.Context, id uuid.UUID) (bool, error) {
	taken := false
	err := r.mutate(id, func(a *dbm.Account) {
		if a.Subscription.ListingsUsed < a.Subscription.ListingsTotal {
			a.Subscription.ListingsUsed++
			taken = true
		}
	})
	return taken, err
}

func (r *fakeAccountRepo) ReleaseListingSlot(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, func(a *dbm.Account) {
		if a.Subscription.ListingsUsed > 0 {
			a.Subscription.ListingsUsed--
		}
	})
}

func (r *fakeAccountRepo) get(id uuid.UUID) *dbm.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

const fakeCDN = "https://cdn.test/"

type fakeImageStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleteErrs map[string]error
	listErr    error
	uploadErr  error
	uploads    int
}

func newFakeImageStore(keys ...string) *fakeImageStore {
	s := &fakeImageStore{objects: map[string][]byte{}, deleteErrs: map[string]error{}}
	for _, k := range keys {
		s.objects[k] = []byte("existing")
	}
	return s
}

func (s *fakeImageStore) Upload(_ context.Context, key string, body []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads++
	s.objects[key] = body
	return fakeCDN + key, nil
}

func (s *fakeImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deleteErrs[key]; err != nil {
		return err
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeImageStore) DeletePrefix(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var failed []string
	for k := range s.objects {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if s.deleteErrs[k] != nil {
			failed = append(failed, k)
			continue
		}
		delete(s.objects, k)
	}
	return failed, nil
}

func (s *fakeImageStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeCDN) {
		return "", false
	}
	return strings.TrimPrefix(url, fakeCDN), true
}

func (s *fakeImageStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *fakeImageStore) setListErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

func (s *fakeImageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fakePendingRepo struct {
	mu     sync.Mutex
	rows   []dbm.PendingImageDeletion
	done   []uuid.UUID
	failed map[uuid.UUID]string
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{failed: map[uuid.UUID]string{}}
}

func (r *fakePendingRepo) Stage(_ context.Context, entityID uuid.UUID, keys []string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		row := dbm.PendingImageDeletion{ObjectKey: k, EntityID: entityID, LastError: reason}
		row.ID = uuid.New()
		r.rows = append(r.rows, row)
	}
	return nil
}

func (r *fakePendingRepo) Due(_ context.Context, maxAttempts, limit int) ([]dbm.PendingImageDeletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dbm.PendingImageDeletion
	for _, row := range r.rows {
		if row.Attempts < maxAttempts && len(out) < limit {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakePendingRepo) MarkDone(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			break
		}
	}
	r.done = append(r.done, id)
	return nil
}

func (r *fakePendingRepo) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Attempts++
			r.rows[i].LastError = reason
		}
	}
	r.failed[id] = reason
	return nil
}

func (r *fakePendingRepo) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row.ObjectKey)
	}
	return out
}

type sentMail struct {
	to      string
	kind    string
	payload any
}

type fakeMail struct {
	sent chan sentMail
	err  error
}

func newFakeMail() *fakeMail {
	return &fakeMail{sent: make(chan sentMail, 8)}
}

func (m *fakeMail) SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error {
	m.sent <- sentMail{to: to, kind: "notify", payload: subject}
	return m.err
}

func (m *fakeMail) SendMailToResetPassword(to, token string) error {
	m.sent <- sentMail{to: to, kind: "reset", payload: token}
	return m.err
}

func (m *fakeMail) SendInquiryNotification(to string, inq InquiryMail) error {
	m.sent <- sentMail{to: to, kind: "inquiry", payload: inq}
	return m.err
}
