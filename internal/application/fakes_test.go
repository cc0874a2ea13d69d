package application_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	announcementDomain "github.com/ammstro/service-pricing/internal/domain/announcement"
	catalogDomain "github.com/ammstro/service-pricing/internal/domain/catalog"
	discountDomain "github.com/ammstro/service-pricing/internal/domain/discount"
	"github.com/ammstro/service-pricing/internal/kafka"
)

// fakePublisher records published events instead of touching a broker.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	topics []string
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.topics = append(p.topics, topic)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// fakeCatalogRepo keeps the aggregate in memory.
type fakeCatalogRepo struct {
	cat     *catalogDomain.Catalog
	loadErr error
	saveErr error
	saves   int
}

func (r *fakeCatalogRepo) Load(context.Context) (*catalogDomain.Catalog, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.cat == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.cat, nil
}

func (r *fakeCatalogRepo) Save(_ context.Context, c *catalogDomain.Catalog) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.cat = c
	r.saves++
	return nil
}

// fakeDiscountRepo keeps codes and redemptions in memory.
type fakeDiscountRepo struct {
	byCode      map[string]*discountDomain.Discount
	redemptions map[string]bool // code + "|" + session
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{
		byCode:      make(map[string]*discountDomain.Discount),
		redemptions: make(map[string]bool),
	}
}

func (r *fakeDiscountRepo) Save(_ context.Context, d *discountDomain.Discount) error {
	r.byCode[d.Code()] = d
	return nil
}

func (r *fakeDiscountRepo) Update(_ context.Context, d *discountDomain.Discount) error {
	r.byCode[d.Code()] = d
	return nil
}

func (r *fakeDiscountRepo) Delete(_ context.Context, code string) error {
	delete(r.byCode, code)
	return nil
}

func (r *fakeDiscountRepo) FindByCode(_ context.Context, code string) (*discountDomain.Discount, error) {
	d, ok := r.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *fakeDiscountRepo) FindAll(context.Context) ([]*discountDomain.Discount, error) {
	out := make([]*discountDomain.Discount, 0, len(r.byCode))
	for _, d := range r.byCode {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDiscountRepo) SaveRedemption(_ context.Context, red *discountDomain.Redemption) error {
	r.redemptions[red.Code+"|"+red.SessionID] = true
	return nil
}

func (r *fakeDiscountRepo) HasSessionRedeemed(_ context.Context, code, sessionID string) (bool, error) {
	return r.redemptions[code+"|"+sessionID], nil
}

// fakeAnnouncementRepo keeps announcements in memory.
type fakeAnnouncementRepo struct {
	items map[uuid.UUID]*announcementDomain.Announcement
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{items: make(map[uuid.UUID]*announcementDomain.Announcement)}
}

func (r *fakeAnnouncementRepo) Save(_ context.Context, a *announcementDomain.Announcement) error {
	r.items[a.ID()] = a
	return nil
}

func (r *fakeAnnouncementRepo) Update(_ context.Context, a *announcementDomain.Announcement) error {
	r.items[a.ID()] = a
	return nil
}

func (r *fakeAnnouncementRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeAnnouncementRepo) FindByID(_ context.Context, id uuid.UUID) (*announcementDomain.Announcement, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAnnouncementRepo) FindAll(context.Context) ([]*announcementDomain.Announcement, error) {
	out := make([]*announcementDomain.Announcement, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	return out, nil
}
