package account

import (
	"context"
	"errors"
	"sync"

	"github.com/smoradi/customer-api/internal/model"
	"github.com/smoradi/customer-api/internal/repository"
)

// memRepo is an in-memory CustomersRepository enforcing the same uniqueness
// the MySQL indexes provide.
type memRepo struct {
	mu   sync.Mutex
	rows map[string]*model.Customer
	// saves counts Save calls so tests can assert single atomic writes
	saves int
}

var _ repository.CustomersRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*model.Customer{}}
}

func (r *memRepo) Create(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.rows {
		if ex.Email == c.Email || ex.Username == c.Username {
			return repository.ErrDuplicateEntry
		}
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *memRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.rows {
		if ex.Email == email || ex.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.rows {
		if ex.Email == email {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ex, ok := r.rows[id]; ok {
		cp := *ex
		return &cp, nil
	}
	return nil, nil
}

func (r *memRepo) Save(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ex := range r.rows {
		if id != c.ID && (ex.Email == c.Email || ex.Username == c.Username) {
			return repository.ErrDuplicateEntry
		}
	}
	cp := *c
	r.rows[c.ID] = &cp
	r.saves++
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *memRepo) List(_ context.Context) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Customer, 0, len(r.rows))
	for _, ex := range r.rows {
		out = append(out, *ex)
	}
	return out, nil
}

// fakeUploader records calls and returns a canned URL or error.
type fakeUploader struct {
	url        string
	err        error
	calls      int
	lastFolder string
	lastData   []byte
}

func (u *fakeUploader) Upload(_ context.Context, data []byte, folder string) (string, error) {
	u.calls++
	u.lastFolder = folder
	u.lastData = data
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

var errUploadDown = errors.New("image host unavailable")
