package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/policy"
)

const (
	catNews   = "10000000-0000-4000-8000-000000000001"
	catSports = "10000000-0000-4000-8000-000000000002"

	artPublished = "20000000-0000-4000-8000-000000000001"
	artFuture    = "20000000-0000-4000-8000-000000000002"
	artDraft     = "20000000-0000-4000-8000-000000000003"
	artOther     = "20000000-0000-4000-8000-000000000004"
	artMissing   = "20000000-0000-4000-8000-0000000000ff"
)

// seedArticles creates one visible article, one published in the future, one
// draft by editor and one published article by otherEditor.
func seedArticles(t *testing.T, f *fixture) {
	t.Helper()
	f.addCategory(t, catNews, "News", nil)
	f.addCategory(t, catSports, "Sports", nil)
	f.addArticle(t, artPublished, "Election Results", editor.ID, catNews, published(testNow.Add(-2*time.Hour)), withViews(40), withFlags(true, false, true))
	f.addArticle(t, artFuture, "Tomorrow Preview", editor.ID, catNews, published(testNow.Add(2*time.Hour)))
	f.addArticle(t, artDraft, "Draft Story", editor.ID, catNews)
	f.addArticle(t, artOther, "Match Report", otherEditor.ID, catSports, published(testNow.Add(-time.Hour)), withViews(90), withFlags(false, true, true))
}

func ids(articles []*models.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}

func articleInput(title string) *models.ArticleInput {
	return &models.ArticleInput{
		Title:      &models.Localized{En: title, Bn: "শিরোনাম"},
		Content:    &models.Localized{En: "one two three four", Bn: "এক দুই তিন"},
		CategoryID: ptr(catNews),
	}
}

func TestArticleService_ListPublic(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	ctx := context.Background()

	tests := []struct {
		name  string
		p     *policy.Principal
		query models.ArticleQuery
		want  []string
	}{
		{"anonymous sees visible only", nil, models.ArticleQuery{}, []string{artOther, artPublished}},
		{"requested status is ignored", nil, models.ArticleQuery{Status: "draft"}, []string{artOther, artPublished}},
		{"admin on public listing is narrowed too", admin, models.ArticleQuery{}, []string{artOther, artPublished}},
		{"category filter", nil, models.ArticleQuery{CategoryID: catSports}, []string{artOther}},
		{"sort by views ascending", nil, models.ArticleQuery{Sort: "views"}, []string{artPublished, artOther}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.Article.List(ctx, tt.p, tt.query, policy.ListingPublic)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(res.Items))
			assert.Equal(t, len(tt.want), res.Pagination.Total)
		})
	}
}

func TestArticleService_ListCMS(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	ctx := context.Background()

	res, err := f.svc.Article.List(ctx, editor, models.ArticleQuery{Sort: "title"}, policy.ListingCMS)
	require.NoError(t, err)
	assert.Equal(t, []string{artDraft, artPublished, artFuture}, ids(res.Items), "editorial users see only their own articles")

	res, err = f.svc.Article.List(ctx, admin, models.ArticleQuery{Status: "draft"}, policy.ListingCMS)
	require.NoError(t, err)
	assert.Equal(t, []string{artDraft}, ids(res.Items))

	res, err = f.svc.Article.List(ctx, admin, models.ArticleQuery{AuthorID: otherEditor.ID}, policy.ListingCMS)
	require.NoError(t, err)
	assert.Equal(t, []string{artOther}, ids(res.Items))

	_, err = f.svc.Article.List(ctx, nil, models.ArticleQuery{}, policy.ListingCMS)
	requireKind(t, err, apperr.KindUnauthenticated)

	_, err = f.svc.Article.List(ctx, admin, models.ArticleQuery{Status: "bogus"}, policy.ListingCMS)
	requireKind(t, err, apperr.KindInvalidInput)
}

func TestArticleService_ListPagination(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)

	res, err := f.svc.Article.List(context.Background(), admin, models.ArticleQuery{Page: "2", Limit: "3", Sort: "title"}, policy.ListingCMS)
	require.NoError(t, err)
	assert.Equal(t, []string{artFuture}, ids(res.Items))
	assert.Equal(t, 4, res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.TotalPages)
}

func TestArticleService_Get(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	ctx := context.Background()

	_, err := f.svc.Article.Get(ctx, nil, "draft-story", false)
	requireKind(t, err, apperr.KindNotFound)

	_, err = f.svc.Article.Get(ctx, otherEditor, artFuture, false)
	requireKind(t, err, apperr.KindNotFound)

	got, err := f.svc.Article.Get(ctx, editor, "draft-story", false)
	require.NoError(t, err)
	assert.Equal(t, artDraft, got.ID)

	got, err = f.svc.Article.Get(ctx, admin, artFuture, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Views, "views are only counted on visible articles")

	got, err = f.svc.Article.Get(ctx, nil, "election-results", true)
	require.NoError(t, err)
	assert.Equal(t, int64(41), got.Views)
	assert.Equal(t, int64(41), f.store.Articles.Articles[artPublished].Views)

	_, err = f.svc.Article.Get(ctx, nil, artMissing, false)
	requireKind(t, err, apperr.KindNotFound)
}

func TestArticleService_Collections(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	ctx := context.Background()

	featured, err := f.svc.Article.Featured(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{artPublished}, ids(featured))

	breaking, err := f.svc.Article.Breaking(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{artOther}, ids(breaking))

	trending, err := f.svc.Article.Trending(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, []string{artOther, artPublished}, ids(trending))

	latest, err := f.svc.Article.Latest(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{artOther}, ids(latest))
}

func TestArticleService_Related(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	f.addArticle(t, "20000000-0000-4000-8000-000000000005", "More News", admin.ID, catNews, published(testNow.Add(-30*time.Minute)))

	related, err := f.svc.Article.Related(context.Background(), nil, "election-results", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"20000000-0000-4000-8000-000000000005"}, ids(related), "same category, visible, excluding itself")
}

func TestArticleService_Search(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	ctx := context.Background()

	res, err := f.svc.Article.Search(ctx, "report", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{artOther}, ids(res.Items))

	res, err = f.svc.Article.Search(ctx, "draft", "", "")
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	_, err = f.svc.Article.Search(ctx, "  ", "", "")
	requireKind(t, err, apperr.KindInvalidInput)
}

func TestArticleService_Create(t *testing.T) {
	f := newFixture(t)
	f.addCategory(t, catNews, "News", nil)
	ctx := context.Background()

	a, err := f.svc.Article.Create(ctx, editor, articleInput("Breaking News"))
	require.NoError(t, err)
	assert.Equal(t, "breaking-news", a.Slug)
	assert.Equal(t, editor.ID, a.AuthorID)
	assert.Equal(t, models.ArticleStatusDraft, a.Status)
	assert.Nil(t, a.PublishedAt)
	assert.True(t, a.AllowComments)
	assert.Equal(t, 1, a.ReadTime)

	dup, err := f.svc.Article.Create(ctx, editor, articleInput("Breaking News"))
	require.NoError(t, err)
	assert.Equal(t, "breaking-news-1", dup.Slug)

	in := articleInput("Published Now")
	in.Status = ptr(models.ArticleStatusPublished)
	_, err = f.svc.Article.Create(ctx, editor, in)
	requireKind(t, err, apperr.KindForbidden)

	pub, err := f.svc.Article.Create(ctx, admin, in)
	require.NoError(t, err)
	require.NotNil(t, pub.PublishedAt)
	assert.True(t, pub.PublishedAt.Equal(testNow))

	scheduled := articleInput("Later")
	scheduled.Status = ptr(models.ArticleStatusScheduled)
	_, err = f.svc.Article.Create(ctx, admin, scheduled)
	requireKind(t, err, apperr.KindInvalidInput)

	noCategory := articleInput("Orphan")
	noCategory.CategoryID = ptr(catSports)
	_, err = f.svc.Article.Create(ctx, admin, noCategory)
	requireKind(t, err, apperr.KindInvalidInput)

	_, err = f.svc.Article.Create(ctx, admin, &models.ArticleInput{Title: &models.Localized{En: "Only English"}})
	requireKind(t, err, apperr.KindInvalidInput)

	_, err = f.svc.Article.Create(ctx, nil, articleInput("Anonymous"))
	requireKind(t, err, apperr.KindUnauthenticated)
}

func TestArticleService_Update(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	ctx := context.Background()

	_, err := f.svc.Article.Update(ctx, otherEditor, artDraft, &models.ArticleInput{Tags: []string{"x"}})
	requireKind(t, err, apperr.KindForbidden)

	updated, err := f.svc.Article.Update(ctx, editor, artDraft, &models.ArticleInput{
		Title: &models.Localized{En: "Renamed Story", Bn: "নতুন"},
		Tags:  []string{" politics ", "politics", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed-story", updated.Slug)
	assert.Equal(t, []string{"politics"}, updated.Tags)
	assert.Equal(t, "renamed-story", f.store.Articles.Articles[artDraft].Slug)

	_, err = f.svc.Article.Update(ctx, editor, artDraft, &models.ArticleInput{Status: ptr(models.ArticleStatusPublished)})
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.Article.Update(ctx, admin, artDraft, &models.ArticleInput{Status: ptr(models.ArticleStatusScheduled)})
	requireKind(t, err, apperr.KindInvalidInput)

	pub, err := f.svc.Article.Update(ctx, admin, artDraft, &models.ArticleInput{Status: ptr(models.ArticleStatusPublished)})
	require.NoError(t, err)
	require.NotNil(t, pub.PublishedAt)
	assert.True(t, pub.PublishedAt.Equal(testNow))

	// an editor may still edit an already published article of their own
	_, err = f.svc.Article.Update(ctx, editor, artPublished, &models.ArticleInput{Status: ptr(models.ArticleStatusPublished)})
	require.NoError(t, err)

	_, err = f.svc.Article.Update(ctx, editor, artMissing, &models.ArticleInput{})
	requireKind(t, err, apperr.KindNotFound)
}

func TestArticleService_Delete(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	ctx := context.Background()

	requireKind(t, f.svc.Article.Delete(ctx, editor, artDraft), apperr.KindForbidden)
	requireKind(t, f.svc.Article.Delete(ctx, editor, artMissing), apperr.KindNotFound)
	requireKind(t, f.svc.Article.Delete(ctx, nil, artDraft), apperr.KindUnauthenticated)

	require.NoError(t, f.svc.Article.Delete(ctx, admin, artDraft))
	assert.NotContains(t, f.store.Articles.Articles, artDraft)
}

func TestArticleService_LikeShare(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)
	ctx := context.Background()

	liked, err := f.svc.Article.Like(ctx, "election-results")
	require.NoError(t, err)
	assert.Equal(t, int64(1), liked.Likes)

	shared, err := f.svc.Article.Share(ctx, artPublished)
	require.NoError(t, err)
	assert.Equal(t, int64(1), shared.Shares)

	_, err = f.svc.Article.Like(ctx, artDraft)
	requireKind(t, err, apperr.KindNotFound)
}

func TestArticleService_Stats(t *testing.T) {
	f := newFixture(t)
	seedArticles(t, f)

	stats, err := f.svc.Article.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalArticles)
	assert.Equal(t, 3, stats.PublishedArticles)
	assert.Equal(t, 1, stats.DraftArticles)
	assert.Equal(t, int64(130), stats.TotalViews)
	require.Len(t, stats.TopArticles, 3)
	assert.Equal(t, artOther, stats.TopArticles[0].ID)
}

func TestArticleService_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Articles.Err = assert.AnError

	_, err := f.svc.Article.List(context.Background(), nil, models.ArticleQuery{}, policy.ListingPublic)
	requireKind(t, err, apperr.KindUpstream)
}
