package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"muhasib-api/internal/adapters/mailer"
	"muhasib-api/internal/models"
	"muhasib-api/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWaitlistRepo is an in-memory WaitlistRepository for service tests
type fakeWaitlistRepo struct {
	entries    []*models.WaitlistEntry
	nextID     int64
	schemaErr  error
	existsErr  error
	createErr  error
	ensureCnt  int
	existsCnt  int
}

func (r *fakeWaitlistRepo) EnsureSchema(ctx context.Context) error {
	r.ensureCnt++
	return r.schemaErr
}

func (r *fakeWaitlistRepo) ExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error) {
	r.existsCnt++
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, e := range r.entries {
		if e.Phone == phone || e.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWaitlistRepo) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeWaitlistRepo) List(ctx context.Context, limit int) ([]*models.WaitlistEntry, error) {
	out := make([]*models.WaitlistEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *fakeWaitlistRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.entries)), nil
}

func newTestWaitlistService(t *testing.T, repo repositories.WaitlistRepository, sender mailer.Sender, cfg *ServiceConfig) WaitlistService {
	t.Helper()
	if cfg == nil {
		cfg = &ServiceConfig{
			NotificationFrom: "Muhasib <onboarding@resend.dev>",
			NotificationTo:   "owner@example.com",
			EmailEnabled:     true,
		}
	}
	svc, err := NewWaitlistService(repo, sender, cfg, testLogger())
	require.NoError(t, err)
	return svc
}

func TestJoinSuccess(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	sender := &mailer.MockSender{}
	svc := newTestWaitlistService(t, repo, sender, nil)

	err := svc.Join(context.Background(), &JoinWaitlistRequest{
		Phone:    "0551234567",
		Email:    "baker@example.com",
		Business: "bakery",
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "0551234567", repo.entries[0].Phone)
	assert.NotZero(t, repo.entries[0].ID)
	assert.Positive(t, repo.ensureCnt)

	require.Len(t, sender.Sent, 1)
	msg := sender.Sent[0]
	assert.Equal(t, "New Waitlist Signup - Muhasib", msg.Subject)
	assert.Equal(t, "owner@example.com", msg.To)
	assert.Contains(t, msg.HTML, "0551234567")
	assert.Contains(t, msg.HTML, "baker@example.com")
	assert.Contains(t, msg.HTML, "bakery")
}

func TestJoinDuplicateRejected(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	sender := &mailer.MockSender{}
	svc := newTestWaitlistService(t, repo, sender, nil)

	first := &JoinWaitlistRequest{Phone: "0551111111", Email: "dup@example.com", Business: "cafe"}
	require.NoError(t, svc.Join(context.Background(), first))

	t.Run("same phone", func(t *testing.T) {
		err := svc.Join(context.Background(), &JoinWaitlistRequest{
			Phone: "0551111111", Email: "other@example.com", Business: "cafe",
		})
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("same email", func(t *testing.T) {
		err := svc.Join(context.Background(), &JoinWaitlistRequest{
			Phone: "0552222222", Email: "dup@example.com", Business: "cafe",
		})
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
		assert.True(t, repositories.IsDuplicate(err),
			"duplicate rejections must carry the repository duplicate sentinel")
	})

	// Only the first submission was persisted and notified
	assert.Len(t, repo.entries, 1)
	assert.Len(t, sender.Sent, 1)
}

func TestJoinBypassNumberSkipsDuplicateCheck(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	sender := &mailer.MockSender{}
	cfg := &ServiceConfig{
		NotificationTo: "owner@example.com",
		EmailEnabled:   true,
		BypassNumbers:  []string{"0549251252"},
	}
	svc := newTestWaitlistService(t, repo, sender, cfg)

	req := &JoinWaitlistRequest{Phone: "0549251252", Email: "tester@example.com", Business: "testing"}
	require.NoError(t, svc.Join(context.Background(), req))
	require.NoError(t, svc.Join(context.Background(), req))

	assert.Len(t, repo.entries, 2)
	assert.Zero(t, repo.existsCnt, "bypass numbers must not hit the duplicate check")
}

func TestJoinValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *JoinWaitlistRequest
	}{
		{"missing phone", &JoinWaitlistRequest{Email: "a@b.com", Business: "cafe"}},
		{"missing email", &JoinWaitlistRequest{Phone: "0551234567", Business: "cafe"}},
		{"missing business", &JoinWaitlistRequest{Phone: "0551234567", Email: "a@b.com"}},
		{"malformed email", &JoinWaitlistRequest{Phone: "0551234567", Email: "not-an-email", Business: "cafe"}},
	}

	repo := &fakeWaitlistRepo{}
	svc := newTestWaitlistService(t, repo, &mailer.MockSender{}, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Join(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, repositories.IsValidation(err))
		})
	}

	assert.Empty(t, repo.entries, "invalid submissions must not be persisted")
}

func TestJoinEmailFailureDoesNotFailSignup(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	sender := &mailer.MockSender{Err: fmt.Errorf("resend: 503 service unavailable")}
	svc := newTestWaitlistService(t, repo, sender, nil)

	err := svc.Join(context.Background(), &JoinWaitlistRequest{
		Phone: "0553334444", Email: "ok@example.com", Business: "restaurant",
	})

	assert.NoError(t, err, "notification failure must not surface to the caller")
	assert.Len(t, repo.entries, 1)
}

func TestJoinEmailDisabled(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	sender := &mailer.MockSender{}
	cfg := &ServiceConfig{EmailEnabled: false}
	svc := newTestWaitlistService(t, repo, sender, cfg)

	err := svc.Join(context.Background(), &JoinWaitlistRequest{
		Phone: "0555556666", Email: "quiet@example.com", Business: "retail",
	})
	require.NoError(t, err)
	assert.Empty(t, sender.Sent)
}

func TestJoinRepositoryErrors(t *testing.T) {
	t.Run("schema failure", func(t *testing.T) {
		repo := &fakeWaitlistRepo{schemaErr: fmt.Errorf("database is locked")}
		svc := newTestWaitlistService(t, repo, &mailer.MockSender{}, nil)

		err := svc.Join(context.Background(), &JoinWaitlistRequest{
			Phone: "0551234567", Email: "a@b.com", Business: "cafe",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema")
	})

	t.Run("insert failure", func(t *testing.T) {
		repo := &fakeWaitlistRepo{createErr: fmt.Errorf("disk I/O error")}
		svc := newTestWaitlistService(t, repo, &mailer.MockSender{}, nil)

		err := svc.Join(context.Background(), &JoinWaitlistRequest{
			Phone: "0551234567", Email: "a@b.com", Business: "cafe",
		})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrAlreadyRegistered)
	})
}

func TestJoinTrimsFields(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := newTestWaitlistService(t, repo, &mailer.MockSender{}, nil)

	err := svc.Join(context.Background(), &JoinWaitlistRequest{
		Phone:    "  0551234567 ",
		Email:    " trim@example.com ",
		Business: " bakery ",
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "0551234567", repo.entries[0].Phone)
	assert.Equal(t, "trim@example.com", repo.entries[0].Email)
	assert.Equal(t, "bakery", repo.entries[0].Business)
}

func TestListNewestFirst(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := newTestWaitlistService(t, repo, &mailer.MockSender{}, &ServiceConfig{})

	for i := 0; i < 5; i++ {
		err := svc.Join(context.Background(), &JoinWaitlistRequest{
			Phone:    fmt.Sprintf("055000000%d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
			Business: "cafe",
		})
		require.NoError(t, err)
	}

	entries, err := svc.List(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, strings.HasSuffix(entries[0].Email, "4@example.com"))
	assert.True(t, entries[0].ID > entries[1].ID)

	// The total counts every signup, not just the listed page
	total, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}
