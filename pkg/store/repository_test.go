package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gonewx/martianblue/pkg/models"
)

// fakeClock 每次调用前进一秒
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestRepo(t *testing.T) (*Repository, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	n := 0
	repo := NewRepository(NewMemory(),
		WithClock(clock.Now),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%03d", n) }),
		WithRepoLogger(zaptest.NewLogger(t)),
	)
	return repo, clock
}

func TestContactLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	first, err := repo.CreateContact(ctx, models.ContactInput{Name: "Ada", Phone: "1", Email: "ADA@X.IO"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, first.Status)
	assert.Equal(t, "ada@x.io", first.Email)

	second, err := repo.CreateContact(ctx, models.ContactInput{Name: "Bob", Phone: "2", Email: "b@x.io"})
	require.NoError(t, err)

	list, err := repo.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	updated, err := repo.UpdateContactStatus(ctx, first.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	got, err := repo.GetContact(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt))

	_, err = repo.UpdateContactStatus(ctx, first.ID, "archived")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	_, err = repo.UpdateContactStatus(ctx, "missing", models.StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteContact(ctx, first.ID))
	_, err = repo.GetContact(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteContact(ctx, first.ID), ErrNotFound)
}

func seedBlogs(t *testing.T, repo *Repository) []models.Blog {
	t.Helper()
	draft := false
	inputs := []models.BlogInput{
		{Title: "one", Excerpt: "e", Content: "c", Category: models.CategoryPhishing, Tags: []string{"email"}},
		{Title: "two", Excerpt: "e", Content: "c", Tags: []string{"email", "mfa"}},
		{Title: "three", Excerpt: "e", Content: "c", Category: models.CategoryNews},
		{Title: "draft", Excerpt: "e", Content: "c", Published: &draft},
		{Title: "five", Excerpt: "e", Content: "c", Category: models.CategoryPhishing},
	}
	var out []models.Blog
	for _, in := range inputs {
		b, err := repo.CreateBlog(context.Background(), in)
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func titles(blogs []models.Blog) []string {
	out := make([]string, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, b.Title)
	}
	return out
}

func TestListBlogs(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	seedBlogs(t, repo)

	tests := []struct {
		name   string
		filter models.BlogFilter
		want   []string
		page   Page
	}{
		{
			name:   "published only, newest first",
			filter: models.BlogFilter{PublishedOnly: true, Limit: 10, Page: 1},
			want:   []string{"five", "three", "two", "one"},
			page:   Page{Total: 4, Page: 1, Pages: 1},
		},
		{
			name:   "category",
			filter: models.BlogFilter{PublishedOnly: true, Category: "Phishing", Limit: 10, Page: 1},
			want:   []string{"five", "one"},
			page:   Page{Total: 2, Page: 1, Pages: 1},
		},
		{
			name:   "tag",
			filter: models.BlogFilter{PublishedOnly: true, Tag: "email", Limit: 10, Page: 1},
			want:   []string{"two", "one"},
			page:   Page{Total: 2, Page: 1, Pages: 1},
		},
		{
			name:   "second page",
			filter: models.BlogFilter{PublishedOnly: true, Limit: 3, Page: 2},
			want:   []string{"one"},
			page:   Page{Total: 4, Page: 2, Pages: 2},
		},
		{
			name:   "page past the end",
			filter: models.BlogFilter{PublishedOnly: true, Limit: 3, Page: 5},
			want:   []string{},
			page:   Page{Total: 4, Page: 5, Pages: 2},
		},
		{
			name:   "including drafts",
			filter: models.BlogFilter{},
			want:   []string{"five", "draft", "three", "two", "one"},
			page:   Page{Total: 5, Page: 1, Pages: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blogs, page, err := repo.ListBlogs(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(blogs))
			assert.Equal(t, tt.page, page)
		})
	}
}

func TestIncrementViews(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	b := seedBlogs(t, repo)[0]

	for i := 0; i < 2; i++ {
		_, err := repo.IncrementViews(ctx, b.ID)
		require.NoError(t, err)
	}
	got, err := repo.GetBlog(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	_, err = repo.IncrementViews(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementViewsConcurrent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	b := seedBlogs(t, repo)[0]

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementViews(ctx, b.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetBlog(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Views)
}

// hookedDocs 在第一次 Get 成功之后调用 afterGet
type hookedDocs struct {
	Documents
	once     sync.Once
	afterGet func(collection, id string)
}

func (h *hookedDocs) Get(ctx context.Context, collection, id string) (Document, error) {
	doc, err := h.Documents.Get(ctx, collection, id)
	if err == nil {
		h.once.Do(func() { h.afterGet(collection, id) })
	}
	return doc, err
}

func newHookedRepo(t *testing.T, docs *hookedDocs) *Repository {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	n := 0
	return NewRepository(docs,
		WithClock(clock.Now),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%03d", n) }),
		WithRepoLogger(zaptest.NewLogger(t)),
	)
}

func TestWriteBackAfterExternalDelete(t *testing.T) {
	ctx := context.Background()
	title := "Updated"

	tests := []struct {
		name       string
		collection string
		create     func(t *testing.T, repo *Repository) string
		write      func(repo *Repository, id string) error
	}{
		{
			name:       "increment views",
			collection: CollectionBlogs,
			create: func(t *testing.T, repo *Repository) string {
				b, err := repo.CreateBlog(ctx, models.BlogInput{Title: "t", Excerpt: "e", Content: "c"})
				require.NoError(t, err)
				return b.ID
			},
			write: func(repo *Repository, id string) error {
				_, err := repo.IncrementViews(ctx, id)
				return err
			},
		},
		{
			name:       "update blog",
			collection: CollectionBlogs,
			create: func(t *testing.T, repo *Repository) string {
				b, err := repo.CreateBlog(ctx, models.BlogInput{Title: "t", Excerpt: "e", Content: "c"})
				require.NoError(t, err)
				return b.ID
			},
			write: func(repo *Repository, id string) error {
				_, err := repo.UpdateBlog(ctx, id, models.BlogPatch{Title: &title})
				return err
			},
		},
		{
			name:       "update contact status",
			collection: CollectionContacts,
			create: func(t *testing.T, repo *Repository) string {
				c, err := repo.CreateContact(ctx, models.ContactInput{Name: "Ada", Phone: "1", Email: "a@x.io"})
				require.NoError(t, err)
				return c.ID
			},
			write: func(repo *Repository, id string) error {
				_, err := repo.UpdateContactStatus(ctx, id, models.StatusContacted)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMemory()
			docs := &hookedDocs{Documents: mem}
			// 另一个进程在读取之后删除了文档
			docs.afterGet = func(collection, id string) {
				require.NoError(t, mem.Delete(ctx, collection, id))
			}
			repo := newHookedRepo(t, docs)
			id := tt.create(t, repo)

			assert.ErrorIs(t, tt.write(repo, id), ErrNotFound)

			_, err := mem.Get(ctx, tt.collection, id)
			assert.ErrorIs(t, err, ErrNotFound, "deleted record must not come back")
		})
	}
}

func TestDeleteWaitsForWriteBack(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	docs := &hookedDocs{Documents: mem}
	repo := newHookedRepo(t, docs)

	b, err := repo.CreateBlog(ctx, models.BlogInput{Title: "t", Excerpt: "e", Content: "c"})
	require.NoError(t, err)

	deleted := make(chan error, 1)
	docs.afterGet = func(_, id string) {
		go func() { deleted <- repo.DeleteBlog(ctx, id) }()
		// 给删除一个机会插入到读和写回之间
		time.Sleep(20 * time.Millisecond)
	}

	views, err := repo.IncrementViews(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, views.Views)
	require.NoError(t, <-deleted)

	_, err = repo.GetBlog(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	blogs, _, err := repo.ListBlogs(ctx, models.BlogFilter{})
	require.NoError(t, err)
	assert.Empty(t, blogs)
}

func TestUpdateBlog(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	b := seedBlogs(t, repo)[0]

	title := "  Updated  "
	updated, err := repo.UpdateBlog(ctx, b.ID, models.BlogPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
	assert.True(t, updated.UpdatedAt.After(b.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(b.CreatedAt))

	bad := models.Category("Gossip")
	_, err = repo.UpdateBlog(ctx, b.ID, models.BlogPatch{Category: &bad})
	assert.ErrorIs(t, err, models.ErrInvalidCategory)

	_, err = repo.UpdateBlog(ctx, "missing", models.BlogPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteBlog(ctx, b.ID))
	_, err = repo.GetBlog(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBlogInvalidCategory(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.CreateBlog(context.Background(), models.BlogInput{Title: "t", Excerpt: "e", Content: "c", Category: "Gossip"})
	assert.ErrorIs(t, err, models.ErrInvalidCategory)

	blogs, _, err := repo.ListBlogs(context.Background(), models.BlogFilter{})
	require.NoError(t, err)
	assert.Empty(t, blogs, "nothing stored on validation failure")
}
