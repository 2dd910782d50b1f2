package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

// memoryCounterStore keeps one row per natural key, like the unique indexes.
type memoryCounterStore struct {
	mu      sync.Mutex
	emails  map[string]models.EmailCount
	notings map[string]models.NotingsCount
	err     error

	lastPeriod models.CounterPeriod
}

func newMemoryCounterStore() *memoryCounterStore {
	return &memoryCounterStore{emails: map[string]models.EmailCount{}, notings: map[string]models.NotingsCount{}}
}

func (m *memoryCounterStore) UpsertEmailCount(_ context.Context, c *models.EmailCount) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[fmt.Sprintf("%s|%d|%d|%s|%s", c.GroupName, c.Month, c.Year, c.EntryType, c.Region)] = *c
	return nil
}

func (m *memoryCounterStore) UpsertNotingsCount(_ context.Context, c *models.NotingsCount) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notings[fmt.Sprintf("%s|%d|%d|%s", c.GroupName, c.Month, c.Year, c.EntryType)] = *c
	return nil
}

func (m *memoryCounterStore) ListEmailCounts(_ context.Context, p models.CounterPeriod) ([]models.EmailCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPeriod = p
	rows := make([]models.EmailCount, 0)
	for _, c := range m.emails {
		if c.Month == p.Month && c.Year == p.Year && (p.Group == "" || c.GroupName == p.Group) {
			rows = append(rows, c)
		}
	}
	return rows, nil
}

func (m *memoryCounterStore) ListNotingsCounts(_ context.Context, p models.CounterPeriod) ([]models.NotingsCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPeriod = p
	rows := make([]models.NotingsCount, 0)
	for _, c := range m.notings {
		if c.Month == p.Month && c.Year == p.Year && (p.Group == "" || c.GroupName == p.Group) {
			rows = append(rows, c)
		}
	}
	return rows, nil
}

var hrUser = &models.JWTClaims{UserID: "u-1", Role: models.RoleUser, GroupName: "HR"}

func TestUpsertEmailCountLastWriteWins(t *testing.T) {
	store := newMemoryCounterStore()
	svc := NewCounterService(store, nil, nil)
	ctx := context.Background()

	req := dto.EmailCountRequest{Month: 3, Year: 2024, EntryType: "Received", Region: "A", TotalEnglish: 4, TotalHindi: 2}
	_, err := svc.UpsertEmailCount(ctx, hrUser, req)
	require.NoError(t, err)

	req.TotalEnglish, req.TotalHindi = 1, 9
	_, err = svc.UpsertEmailCount(ctx, hrUser, req)
	require.NoError(t, err)

	require.Len(t, store.emails, 1)
	stored := store.emails["HR|3|2024|Received|A"]
	assert.Equal(t, 1, stored.TotalEnglish)
	assert.Equal(t, 9, stored.TotalHindi)
	assert.Equal(t, region.A, stored.Region)
}

func TestUpsertNotingsCountLastWriteWins(t *testing.T) {
	store := newMemoryCounterStore()
	svc := NewCounterService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.UpsertNotingsCount(ctx, hrUser, dto.NotingsCountRequest{Month: 3, Year: 2024, EntryType: "Noting", Hindi: 5, English: 5})
	require.NoError(t, err)
	_, err = svc.UpsertNotingsCount(ctx, hrUser, dto.NotingsCountRequest{Month: 3, Year: 2024, EntryType: "Noting", Hindi: 7, English: 1})
	require.NoError(t, err)

	require.Len(t, store.notings, 1)
	stored := store.notings["HR|3|2024|Noting"]
	assert.Equal(t, 7, stored.HindiPages)
	assert.Equal(t, 1, stored.EnglishPages)
}

func TestUpsertNotingsCountNormalisesFields(t *testing.T) {
	store := newMemoryCounterStore()
	svc := NewCounterService(store, nil, nil)
	ctx := context.Background()

	comment, err := svc.UpsertNotingsCount(ctx, hrUser, dto.NotingsCountRequest{Month: 1, Year: 2024, EntryType: "Comment", Hindi: 3, English: 3, Eoffice: 6})
	require.NoError(t, err)
	assert.Equal(t, models.NotingsCount{GroupName: "HR", Month: 1, Year: 2024, EntryType: models.NotingsComment, EofficeComments: 6, UpdatedAt: comment.UpdatedAt}, *comment)

	noting, err := svc.UpsertNotingsCount(ctx, hrUser, dto.NotingsCountRequest{Month: 1, Year: 2024, EntryType: "Noting", Hindi: -4, English: 2, Eoffice: 6})
	require.NoError(t, err)
	assert.Equal(t, 0, noting.HindiPages)
	assert.Equal(t, 2, noting.EnglishPages)
	assert.Equal(t, 0, noting.EofficeComments)
}

func TestUpsertEmailCountClampsNegatives(t *testing.T) {
	svc := NewCounterService(newMemoryCounterStore(), nil, nil)
	count, err := svc.UpsertEmailCount(context.Background(), hrUser, dto.EmailCountRequest{Month: 2, Year: 2024, EntryType: "Replied", Region: "C", TotalEnglish: -1, TotalHindi: -3})
	require.NoError(t, err)
	assert.Zero(t, count.TotalEnglish)
	assert.Zero(t, count.TotalHindi)
}

func TestCounterGroupResolution(t *testing.T) {
	store := newMemoryCounterStore()
	svc := NewCounterService(store, nil, nil)
	ctx := context.Background()
	req := dto.EmailCountRequest{Month: 3, Year: 2024, EntryType: "Received", Region: "B", Group: "Finance"}

	count, err := svc.UpsertEmailCount(ctx, hrUser, req)
	require.NoError(t, err)
	assert.Equal(t, "HR", count.GroupName)

	admin := &models.JWTClaims{UserID: "a-1", Role: models.RoleAdmin, GroupName: "Admin"}
	count, err = svc.UpsertEmailCount(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, "Finance", count.GroupName)

	_, err = svc.UpsertEmailCount(ctx, &models.JWTClaims{UserID: "u-2", Role: models.RoleUser}, req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCounterValidation(t *testing.T) {
	svc := NewCounterService(newMemoryCounterStore(), nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
	}{
		{"month", func() error {
			_, err := svc.UpsertEmailCount(ctx, hrUser, dto.EmailCountRequest{Month: 13, Year: 2024, EntryType: "Received", Region: "A"})
			return err
		}},
		{"region", func() error {
			_, err := svc.UpsertEmailCount(ctx, hrUser, dto.EmailCountRequest{Month: 1, Year: 2024, EntryType: "Received", Region: "Unknown"})
			return err
		}},
		{"entry type", func() error {
			_, err := svc.UpsertNotingsCount(ctx, hrUser, dto.NotingsCountRequest{Month: 1, Year: 2024, EntryType: "Draft"})
			return err
		}},
		{"year", func() error {
			_, err := svc.UpsertNotingsCount(ctx, hrUser, dto.NotingsCountRequest{Month: 1, Year: 24, EntryType: "Noting"})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			var appErr *appErrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
}

func TestCounterStorageFailure(t *testing.T) {
	store := newMemoryCounterStore()
	store.err = errors.New("db down")
	svc := NewCounterService(store, nil, nil)

	_, err := svc.UpsertNotingsCount(context.Background(), hrUser, dto.NotingsCountRequest{Month: 1, Year: 2024, EntryType: "Noting"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestCounterUpdatedAtUsesServiceClock(t *testing.T) {
	store := newMemoryCounterStore()
	svc := NewCounterService(store, nil, nil)
	pinned := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return pinned }

	notings, err := svc.UpsertNotingsCount(context.Background(), hrUser, dto.NotingsCountRequest{Month: 3, Year: 2024, EntryType: "Noting", Hindi: 4})
	require.NoError(t, err)
	assert.Equal(t, pinned, notings.UpdatedAt)

	email, err := svc.UpsertEmailCount(context.Background(), hrUser, dto.EmailCountRequest{Month: 3, Year: 2024, EntryType: "Received", Region: "A", TotalHindi: 1})
	require.NoError(t, err)
	assert.Equal(t, pinned, email.UpdatedAt)
	assert.Equal(t, pinned, store.emails["HR|3|2024|Received|A"].UpdatedAt)
}

func TestListCountersScopesGroup(t *testing.T) {
	store := newMemoryCounterStore()
	svc := NewCounterService(store, nil, nil)
	ctx := context.Background()
	admin := &models.JWTClaims{UserID: "a-1", Role: models.RoleAdmin, GroupName: "Admin"}

	_, err := svc.UpsertNotingsCount(ctx, hrUser, dto.NotingsCountRequest{Month: 3, Year: 2024, EntryType: "Noting", Hindi: 4})
	require.NoError(t, err)
	_, err = svc.UpsertNotingsCount(ctx, admin, dto.NotingsCountRequest{Month: 3, Year: 2024, EntryType: "Noting", Hindi: 7, Group: "Finance"})
	require.NoError(t, err)

	rows, err := svc.ListNotingsCounts(ctx, hrUser, dto.CounterPeriodRequest{Month: 3, Year: 2024, Group: "Finance"})
	require.NoError(t, err)
	assert.Equal(t, "HR", store.lastPeriod.Group)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].HindiPages)

	rows, err = svc.ListNotingsCounts(ctx, admin, dto.CounterPeriodRequest{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Empty(t, store.lastPeriod.Group)
	assert.Len(t, rows, 2)

	_, err = svc.ListEmailCounts(ctx, admin, dto.CounterPeriodRequest{Month: 3, Year: 2024, Group: " Finance "})
	require.NoError(t, err)
	assert.Equal(t, "Finance", store.lastPeriod.Group)

	_, err = svc.ListEmailCounts(ctx, hrUser, dto.CounterPeriodRequest{Month: 0, Year: 2024})
	requireCode(t, err, appErrors.ErrValidation.Code)

	store.err = errors.New("db down")
	_, err = svc.ListEmailCounts(ctx, hrUser, dto.CounterPeriodRequest{Month: 3, Year: 2024})
	requireCode(t, err, appErrors.ErrInternal.Code)
}
