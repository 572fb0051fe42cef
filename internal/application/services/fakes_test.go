package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	aliasDomain "github.com/Xeyame/sharry/internal/domain/alias"
	"github.com/Xeyame/sharry/internal/domain/blob"
	"github.com/Xeyame/sharry/internal/domain/publishlink"
	"github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
	"github.com/Xeyame/sharry/internal/infrastructure/blob/memory"
	"github.com/Xeyame/sharry/internal/infrastructure/mq"
)

// ---- share repository fake ----

type fakeShareRepo struct {
	mu     sync.Mutex
	shares map[share.ID]*share.Share
	links  *fakeLinkRepo
	files  *fakeFileRepo
}

func newFakeShareRepo() *fakeShareRepo {
	return &fakeShareRepo{shares: map[share.ID]*share.Share{}}
}

func (r *fakeShareRepo) CreateShare(_ context.Context, req share.Share) (*share.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := req
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	r.shares[s.ID] = &s

	cp := s
	return &cp, nil
}

func (r *fakeShareRepo) FetchShare(_ context.Context, id share.ID) (*share.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[id]
	if !ok {
		return nil, share.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeShareRepo) FetchShares(_ context.Context, accountID account.ID, _ int) (share.Shares, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out share.Shares
	for _, s := range r.shares {
		if s.AccountID == accountID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeShareRepo) update(id share.ID, fn func(*share.Share)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[id]
	if !ok {
		return share.ErrNotFound
	}
	fn(s)
	return nil
}

func (r *fakeShareRepo) UpdateName(_ context.Context, id share.ID, name string) error {
	return r.update(id, func(s *share.Share) { s.Name = name })
}

func (r *fakeShareRepo) UpdateDescription(_ context.Context, id share.ID, description string) error {
	return r.update(id, func(s *share.Share) { s.Description = description })
}

func (r *fakeShareRepo) UpdateValidity(_ context.Context, id share.ID, validity time.Duration) error {
	return r.update(id, func(s *share.Share) { s.Validity = validity })
}

func (r *fakeShareRepo) UpdateMaxViews(_ context.Context, id share.ID, maxViews int) error {
	return r.update(id, func(s *share.Share) { s.MaxViews = maxViews })
}

func (r *fakeShareRepo) UpdatePasswordHash(_ context.Context, id share.ID, hash *string) error {
	return r.update(id, func(s *share.Share) { s.PasswordHash = hash })
}

func (r *fakeShareRepo) DeleteShare(_ context.Context, id share.ID) error {
	r.mu.Lock()
	if _, ok := r.shares[id]; !ok {
		r.mu.Unlock()
		return share.ErrNotFound
	}
	delete(r.shares, id)
	r.mu.Unlock()

	// cascade, like the transactional delete does
	if r.links != nil {
		r.links.dropByShare(id)
	}
	if r.files != nil {
		r.files.dropByShare(id)
	}
	return nil
}

func (r *fakeShareRepo) FetchExpiredPublished(_ context.Context, olderThan time.Time) (share.Shares, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out share.Shares
	for _, s := range r.shares {
		if !s.CreatedAt.Before(olderThan) {
			continue
		}
		if r.links == nil || !r.links.isActive(s.ID) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// ---- share file repository fake ----

type fakeFileRepo struct {
	mu    sync.Mutex
	files map[sharefile.ID]*sharefile.ShareFile
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[sharefile.ID]*sharefile.ShareFile{}}
}

func (r *fakeFileRepo) CreateShareFile(_ context.Context, req sharefile.ShareFile) (*sharefile.ShareFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := req
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	r.files[f.ID] = &f

	cp := f
	return &cp, nil
}

func (r *fakeFileRepo) FetchShareFile(_ context.Context, id sharefile.ID) (*sharefile.ShareFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok {
		return nil, share.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) FetchShareFiles(_ context.Context, shareID share.ID) (sharefile.ShareFiles, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out sharefile.ShareFiles
	for _, f := range r.files {
		if f.ShareID == shareID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeFileRepo) UpdateRealSize(_ context.Context, id sharefile.ID, realSize uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok {
		return share.ErrNotFound
	}
	if realSize > f.RealSize {
		f.RealSize = realSize
	}
	return nil
}

func (r *fakeFileRepo) SumRealSize(_ context.Context, shareID share.ID) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum uint64
	for _, f := range r.files {
		if f.ShareID == shareID {
			sum += f.RealSize
		}
	}
	return sum, nil
}

// DeleteShareFile mirrors the repository contract: deleting an absent
// row is a no-op, not an error.
func (r *fakeFileRepo) DeleteShareFile(_ context.Context, id sharefile.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) ExistsByBlobID(_ context.Context, blobID blob.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if f.BlobID == blobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFileRepo) dropByShare(shareID share.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.files {
		if f.ShareID == shareID {
			delete(r.files, id)
		}
	}
}

// ---- publish link repository fake ----

type fakeLinkRepo struct {
	mu    sync.Mutex
	links map[share.ID]*publishlink.PublishLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: map[share.ID]*publishlink.PublishLink{}}
}

func (r *fakeLinkRepo) CreatePublishLink(_ context.Context, req publishlink.PublishLink) (*publishlink.PublishLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := req
	l.PublishedAt = time.Now()
	r.links[l.ShareID] = &l

	cp := l
	return &cp, nil
}

func (r *fakeLinkRepo) FetchByShare(_ context.Context, shareID share.ID) (*publishlink.PublishLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.links[shareID]
	if !ok {
		return nil, share.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLinkRepo) FetchActiveByPublicID(_ context.Context, publicID string) (*publishlink.PublishLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.links {
		if l.PublicID == publicID && l.Active {
			cp := *l
			return &cp, nil
		}
	}
	return nil, share.ErrNotFound
}

func (r *fakeLinkRepo) UpdateLink(_ context.Context, shareID share.ID, publicID string, active, reuseID bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.links[shareID]
	if !ok {
		return share.ErrNotFound
	}
	l.PublicID = publicID
	l.Active = active
	l.ReuseID = reuseID
	l.PublishedAt = time.Now()
	return nil
}

func (r *fakeLinkRepo) IncrementViews(_ context.Context, shareID share.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.links[shareID]
	if !ok {
		return share.ErrNotFound
	}
	l.Views++
	return nil
}

func (r *fakeLinkRepo) isActive(shareID share.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.links[shareID]
	return ok && l.Active
}

func (r *fakeLinkRepo) dropByShare(shareID share.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links, shareID)
}

// ---- alias repository fake ----

type fakeAliasRepo struct {
	aliases map[account.AliasID]*aliasDomain.Alias
}

func newFakeAliasRepo() *fakeAliasRepo {
	return &fakeAliasRepo{aliases: map[account.AliasID]*aliasDomain.Alias{}}
}

func (r *fakeAliasRepo) FetchAlias(_ context.Context, accountID account.ID, aliasID account.AliasID) (*aliasDomain.Alias, error) {
	a, ok := r.aliases[aliasID]
	if !ok || a.AccountID != accountID {
		return nil, share.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// ---- password hasher fake ----

// plainHasher avoids bcrypt's cost in tests; the mapping is still
// non-identity so a hash never verifies as a password.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Verify(plain, hash string) bool    { return "h:"+plain == hash }

// ---- rabbitmq fake ----

type fakeMQ struct {
	in chan mq.Event
}

func newFakeMQ() *fakeMQ {
	return &fakeMQ{in: make(chan mq.Event, 64)}
}

func (f *fakeMQ) Connect(context.Context, string) error { return nil }
func (f *fakeMQ) Init() error                           { return nil }
func (f *fakeMQ) PublisherWorker(context.Context)       {}
func (f *fakeMQ) GetInputChan() chan mq.Event           { return f.in }
func (f *fakeMQ) GetConn() *amqp091.Connection          { return nil }

func (f *fakeMQ) drain() []mq.Event {
	var out []mq.Event
	for {
		select {
		case e := <-f.in:
			out = append(out, e)
		default:
			return out
		}
	}
}

// ---- blob deleter fake ----

type recordingDeleter struct {
	mu  sync.Mutex
	ids []blob.ID
}

func (d *recordingDeleter) Enqueue(id blob.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, id)
}

func (d *recordingDeleter) Worker(context.Context) {}

func (d *recordingDeleter) enqueued() []blob.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]blob.ID(nil), d.ids...)
}

// ---- test harness ----

const (
	testChunkSize = 8
	testMaxSize   = 64
)

type harness struct {
	shareRepo *fakeShareRepo
	fileRepo  *fakeFileRepo
	linkRepo  *fakeLinkRepo
	aliasRepo *fakeAliasRepo
	blobs     ports.BlobStore
	deleter   *recordingDeleter
	rbMQ      *fakeMQ

	access *Access
	quota  *Quota

	shares  ports.ShareService
	uploads ports.UploadService
	publish ports.PublishService
	cleanup ports.CleanupService
}

func newHarness() *harness {
	h := &harness{
		shareRepo: newFakeShareRepo(),
		fileRepo:  newFakeFileRepo(),
		linkRepo:  newFakeLinkRepo(),
		aliasRepo: newFakeAliasRepo(),
		blobs:     memory.New(),
		deleter:   &recordingDeleter{},
		rbMQ:      newFakeMQ(),
	}
	h.shareRepo.links = h.linkRepo
	h.shareRepo.files = h.fileRepo

	hasher := plainHasher{}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
	logger := zap.NewNop()

	h.access = NewAccess(h.shareRepo, h.fileRepo, h.linkRepo, hasher)
	h.quota = NewQuota(h.fileRepo, testMaxSize)

	h.shares = NewShareService(h.shareRepo, h.fileRepo, h.linkRepo, h.aliasRepo, h.access, hasher, h.deleter, h.rbMQ, counter, 7*24*time.Hour)
	h.uploads = NewUploadService(h.access, h.fileRepo, h.blobs, h.quota, h.deleter, counter, testChunkSize)
	h.publish = NewPublishService(h.access, h.linkRepo, h.rbMQ, counter)
	h.cleanup = NewCleanupService(h.shareRepo, h.fileRepo, h.blobs, logger, counter)

	return h
}

// seedShare inserts a share directly into the repository, bypassing
// the service, so tests control every field.
func (h *harness) seedShare(s share.Share) *share.Share {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.Validity == 0 {
		s.Validity = 7 * 24 * time.Hour
	}
	h.shareRepo.mu.Lock()
	defer h.shareRepo.mu.Unlock()
	cp := s
	h.shareRepo.shares[s.ID] = &cp
	return &s
}

func (h *harness) seedLink(l publishlink.PublishLink) *publishlink.PublishLink {
	if l.PublishedAt.IsZero() {
		l.PublishedAt = time.Now()
	}
	h.linkRepo.mu.Lock()
	defer h.linkRepo.mu.Unlock()
	cp := l
	h.linkRepo.links[l.ShareID] = &cp
	return &l
}

func hashOf(plain string) *string {
	h := fmt.Sprintf("h:%s", plain)
	return &h
}
