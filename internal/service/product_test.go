package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallgrim/vanir/internal/events"
	"github.com/hallgrim/vanir/internal/storage"
)

func newProductFixture(t *testing.T, repo *fakeRepo) (ProductService, *events.RecordingPublisher) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	publisher := events.NewRecordingPublisher()
	return NewProductService(repo, store, publisher, testLogger()), publisher
}

func TestProductCRUD(t *testing.T) {
	repo := newFakeRepo()
	category := repo.seedCategory("Coffee")
	svc, publisher := newProductFixture(t, repo)

	created, err := svc.Create(context.Background(), ProductParams{
		Name:         "Light Roast",
		PriceInCents: 1650,
		Description:  "Single origin",
		CategoryID:   uuidString(category.ID),
		Quantity:     40,
		IsAvailable:  true,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), uuidString(created.ID), ProductParams{
		Name:         "Light Roast",
		PriceInCents: 1750,
		Description:  "Single origin",
		CategoryID:   uuidString(category.ID),
		Quantity:     35,
		IsAvailable:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1750), updated.PriceInCents)

	listed, err := svc.ListAvailable(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	hidden, err := svc.SetAvailability(context.Background(), uuidString(created.ID), false)
	require.NoError(t, err)
	assert.False(t, hidden.IsAvailable)

	listed, err = svc.ListAvailable(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, listed)

	require.NoError(t, svc.Delete(context.Background(), uuidString(created.ID)))

	// Every mutation published a catalog event.
	subjects := make([]string, 0, len(publisher.Events))
	for _, e := range publisher.Events {
		subjects = append(subjects, e.Subject)
	}
	assert.Equal(t, []string{
		events.SubjectProductCreated,
		events.SubjectProductUpdated,
		events.SubjectProductUpdated,
		events.SubjectProductDeleted,
	}, subjects)
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newProductFixture(t, repo)

	_, err := svc.Create(context.Background(), ProductParams{
		Name: "Orphan", PriceInCents: 100, CategoryID: uuidString(newUUID()),
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUploadImage(t *testing.T) {
	repo := newFakeRepo()
	category := repo.seedCategory("Coffee")
	svc, _ := newProductFixture(t, repo)

	created, err := svc.Create(context.Background(), ProductParams{
		Name: "Roast", PriceInCents: 1650, CategoryID: uuidString(category.ID), IsAvailable: true,
	})
	require.NoError(t, err)

	updated, err := svc.UploadImage(context.Background(), uuidString(created.ID),
		"bag.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(updated.ImagePath, "products/"+uuidString(created.ID)+"/"))
	assert.True(t, strings.HasSuffix(updated.ImagePath, "-bag.jpg"))
}

func TestCategoryCRUD(t *testing.T) {
	repo := newFakeRepo()
	publisher := events.NewRecordingPublisher()
	svc := NewCategoryService(repo, publisher, testLogger())

	created, err := svc.Create(context.Background(), " Coffee ")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", created.Name)

	_, err = svc.Create(context.Background(), "coffee")
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	renamed, err := svc.Rename(context.Background(), uuidString(created.ID), "Beans")
	require.NoError(t, err)
	assert.Equal(t, "Beans", renamed.Name)

	deactivated, err := svc.SetActive(context.Background(), uuidString(created.ID), false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	require.NoError(t, svc.Delete(context.Background(), uuidString(created.ID)))
}

func TestCategoryDelete_WithProducts(t *testing.T) {
	repo := newFakeRepo()
	category := repo.seedCategory("Coffee")
	repo.seedProduct("Roast", 1650)
	svc := NewCategoryService(repo, events.NewNoopPublisher(), testLogger())

	err := svc.Delete(context.Background(), uuidString(category.ID))
	assert.ErrorIs(t, err, ErrCategoryNotEmpty)
}
