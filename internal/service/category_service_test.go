package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/models"
)

const (
	catRoot   = "10000000-0000-4000-8000-000000000010"
	catChild  = "10000000-0000-4000-8000-000000000011"
	catLeaf   = "10000000-0000-4000-8000-000000000012"
	catHidden = "10000000-0000-4000-8000-000000000013"
)

// seedCategoryTree builds World > Asia > Bangladesh plus an inactive root.
func seedCategoryTree(t *testing.T, f *fixture) {
	t.Helper()
	f.addCategory(t, catRoot, "World", nil)
	f.addCategory(t, catChild, "Asia", ptr(catRoot))
	f.addCategory(t, catLeaf, "Bangladesh", ptr(catChild))
	hidden := f.addCategory(t, catHidden, "Archive", nil)
	hidden.IsActive = false
	require.NoError(t, f.store.Categories.Update(context.Background(), hidden))
}

func categoryIDs(categories []*models.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.ID)
	}
	return out
}

func TestCategoryService_List(t *testing.T) {
	f := newFixture(t)
	seedCategoryTree(t, f)
	ctx := context.Background()

	tests := []struct {
		name    string
		query   CategoryQuery
		want    []string
		wantErr apperr.Kind
	}{
		{name: "all", query: CategoryQuery{}, want: []string{catHidden, catChild, catLeaf, catRoot}},
		{name: "active only", query: CategoryQuery{IsActive: ptr(true)}, want: []string{catChild, catLeaf, catRoot}},
		{name: "roots", query: CategoryQuery{Parent: "null"}, want: []string{catHidden, catRoot}},
		{name: "children of", query: CategoryQuery{Parent: catRoot}, want: []string{catChild}},
		{name: "search", query: CategoryQuery{Search: " bangla "}, want: []string{catLeaf}},
		{name: "bad parent", query: CategoryQuery{Parent: "nope"}, wantErr: apperr.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Category.List(ctx, tt.query)
			if tt.wantErr != "" {
				requireKind(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, categoryIDs(got))
		})
	}
}

func TestCategoryService_TreeAndMenu(t *testing.T) {
	f := newFixture(t)
	seedCategoryTree(t, f)
	ctx := context.Background()

	tree, err := f.svc.Category.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1, "inactive roots are left out")
	assert.Equal(t, catRoot, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, catLeaf, tree[0].Children[0].Children[0].ID)

	menu, err := f.svc.Category.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	require.Len(t, menu[0].Children, 1)
	assert.Empty(t, menu[0].Children[0].Children, "the menu stops at two levels")
}

func TestCategoryService_Articles(t *testing.T) {
	f := newFixture(t)
	seedCategoryTree(t, f)
	ctx := context.Background()

	f.addArticle(t, artPublished, "Dhaka Update", editor.ID, catLeaf, published(testNow.Add(-time.Hour)))
	f.addArticle(t, artDraft, "Unfinished", editor.ID, catLeaf)

	res, pg, err := f.svc.Category.Articles(ctx, "bangladesh", "", "")
	require.NoError(t, err)
	assert.Equal(t, catLeaf, res.Category.ID)
	assert.Equal(t, []string{artPublished}, ids(res.Articles))
	assert.Equal(t, 1, pg.Total)

	_, _, err = f.svc.Category.Articles(ctx, catHidden, "", "")
	requireKind(t, err, apperr.KindNotFound)

	_, _, err = f.svc.Category.Articles(ctx, "missing", "", "")
	requireKind(t, err, apperr.KindNotFound)
}

func TestCategoryService_Create(t *testing.T) {
	f := newFixture(t)
	seedCategoryTree(t, f)
	ctx := context.Background()

	in := &models.CategoryInput{Name: &models.Localized{En: "World", Bn: "বিশ্ব"}, ParentID: ptr(catRoot)}

	_, err := f.svc.Category.Create(ctx, editor, in)
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.Category.Create(ctx, nil, in)
	requireKind(t, err, apperr.KindUnauthenticated)

	c, err := f.svc.Category.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, "world-1", c.Slug)
	assert.True(t, c.IsActive)
	assert.True(t, c.ShowInMenu)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, catRoot, *c.ParentID)

	_, err = f.svc.Category.Create(ctx, admin, &models.CategoryInput{
		Name:     &models.Localized{En: "Orphan", Bn: "অনাথ"},
		ParentID: ptr("10000000-0000-4000-8000-0000000000ff"),
	})
	requireKind(t, err, apperr.KindInvalidInput)

	_, err = f.svc.Category.Create(ctx, admin, &models.CategoryInput{Name: &models.Localized{En: "No Bangla"}})
	requireKind(t, err, apperr.KindInvalidInput)
}

func TestCategoryService_UpdateParent(t *testing.T) {
	f := newFixture(t)
	seedCategoryTree(t, f)
	ctx := context.Background()

	_, err := f.svc.Category.Update(ctx, admin, catRoot, &models.CategoryInput{ParentID: ptr(catRoot)})
	requireKind(t, err, apperr.KindInvalidInput)

	_, err = f.svc.Category.Update(ctx, admin, catRoot, &models.CategoryInput{ParentID: ptr(catLeaf)})
	requireKind(t, err, apperr.KindInvalidInput)

	moved, err := f.svc.Category.Update(ctx, admin, catLeaf, &models.CategoryInput{ParentID: ptr(catRoot)})
	require.NoError(t, err)
	assert.Equal(t, catRoot, *moved.ParentID)

	root, err := f.svc.Category.Update(ctx, admin, catChild, &models.CategoryInput{ClearParent: true})
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)

	renamed, err := f.svc.Category.Update(ctx, admin, catChild, &models.CategoryInput{Name: &models.Localized{En: "Asia Pacific", Bn: "এশিয়া"}})
	require.NoError(t, err)
	assert.Equal(t, "asia-pacific", renamed.Slug)

	_, err = f.svc.Category.Update(ctx, admin, "missing", &models.CategoryInput{})
	requireKind(t, err, apperr.KindNotFound)
}

func TestCategoryService_Delete(t *testing.T) {
	f := newFixture(t)
	seedCategoryTree(t, f)
	ctx := context.Background()

	requireKind(t, f.svc.Category.Delete(ctx, admin, catChild), apperr.KindConflict)

	f.addArticle(t, artDraft, "Leaf Story", editor.ID, catLeaf)
	requireKind(t, f.svc.Category.Delete(ctx, admin, catLeaf), apperr.KindConflict)

	require.NoError(t, f.svc.Category.Delete(ctx, admin, catHidden))
	assert.NotContains(t, f.store.Categories.Categories, catHidden)

	requireKind(t, f.svc.Category.Delete(ctx, editor, catHidden), apperr.KindForbidden)
}
