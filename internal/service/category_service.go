package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/repository"
)

// categoryService implements CategoryService
type categoryService struct {
	deps
	log zerolog.Logger
}

func newCategoryService(d deps, log zerolog.Logger) *categoryService {
	return &categoryService{
		deps: d,
		log:  log.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context, q CategoryQuery) ([]*models.Category, error) {
	filter := repository.CategoryFilter{
		IsActive:   q.IsActive,
		ShowInMenu: q.ShowInMenu,
		Search:     strings.TrimSpace(q.Search),
	}
	switch q.Parent {
	case "":
	case "null":
		filter.RootOnly = true
	default:
		if err := s.validator.ValidateID("parent", q.Parent); err != nil {
			return nil, translate(err, "category")
		}
		filter.ParentID = q.Parent
	}

	categories, err := s.repos.Category.List(ctx, filter)
	if err != nil {
		return nil, translate(err, "categories")
	}
	return categories, nil
}

func (s *categoryService) Tree(ctx context.Context) ([]*models.CategoryNode, error) {
	categories, err := s.repos.Category.List(ctx, repository.CategoryFilter{IsActive: boolPtr(true)})
	if err != nil {
		return nil, translate(err, "categories")
	}
	return buildTree(categories), nil
}

func (s *categoryService) Menu(ctx context.Context) ([]*models.CategoryNode, error) {
	categories, err := s.repos.Category.List(ctx, repository.CategoryFilter{IsActive: boolPtr(true)})
	if err != nil {
		return nil, translate(err, "categories")
	}

	roots := make([]*models.CategoryNode, 0)
	for _, node := range buildTree(categories) {
		if node.ShowInMenu {
			roots = append(roots, node)
		}
	}
	// the menu is two levels deep
	for _, root := range roots {
		for _, child := range root.Children {
			child.Children = []*models.CategoryNode{}
		}
	}
	return roots, nil
}

// buildTree arranges categories into a forest, keeping their input order.
// Categories whose parent is absent from the input are dropped.
func buildTree(categories []*models.Category) []*models.CategoryNode {
	nodes := make(map[string]*models.CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &models.CategoryNode{Category: *c, Children: []*models.CategoryNode{}}
	}

	roots := make([]*models.CategoryNode, 0)
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}

func (s *categoryService) find(ctx context.Context, identifier string) (*models.Category, error) {
	var (
		category *models.Category
		err      error
	)
	if _, parseErr := uuid.Parse(identifier); parseErr == nil {
		category, err = s.repos.Category.GetByID(ctx, identifier)
	} else {
		category, err = s.repos.Category.GetBySlug(ctx, identifier)
	}
	if err != nil {
		return nil, translate(err, "category")
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, identifier string) (*models.Category, error) {
	return s.find(ctx, identifier)
}

func (s *categoryService) Articles(ctx context.Context, identifier, page, limit string) (*models.CategoryArticles, *pagination.Page, error) {
	category, err := s.find(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	if !category.IsActive {
		return nil, nil, apperr.NotFound("category not found")
	}

	params := s.page(page, limit)
	published := models.ArticleStatusPublished
	now := s.now()
	articles, total, err := s.repos.Article.List(ctx, repository.ArticleFilter{
		Status:      &published,
		PublishedTo: &now,
		CategoryID:  category.ID,
	}, repository.ListOptions{Sort: newestFirst, Limit: params.Limit, Offset: params.Offset})
	if err != nil {
		return nil, nil, translate(err, "articles")
	}

	pg := params.NewPage(total)
	return &models.CategoryArticles{Category: category, Articles: articles}, &pg, nil
}

func (s *categoryService) authorize(p *policy.Principal) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if !policy.Can(p, policy.ManageCategories) {
		return apperr.Forbidden("you do not have permission to manage categories")
	}
	return nil
}

func (s *categoryService) requireParent(ctx context.Context, id string) error {
	parent, err := s.repos.Category.GetByID(ctx, id)
	if err != nil {
		return translate(err, "category")
	}
	if parent == nil {
		return invalid("parentId", "parent category not found")
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, p *policy.Principal, in *models.CategoryInput) (*models.Category, error) {
	if err := s.authorize(p); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateCategory(in, true); err != nil {
		return nil, translate(err, "category")
	}
	if in.ParentID != nil && !in.ClearParent {
		if err := s.requireParent(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	name := in.Name.Trimmed()
	slugText, err := uniqueSlug(ctx, name.En, "category", "", s.repos.Category.SlugExists)
	if err != nil {
		return nil, translate(err, "category")
	}

	now := s.now()
	category := &models.Category{
		ID:         uuid.New().String(),
		Name:       name,
		Slug:       slugText,
		IsActive:   true,
		ShowInMenu: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if !in.ClearParent {
		category.ParentID = in.ParentID
	}
	applyCategoryInput(category, in)

	if err := s.repos.Category.Create(ctx, category); err != nil {
		return nil, translate(err, "category")
	}

	s.log.Info().Str("category_id", category.ID).Str("slug", category.Slug).Msg("Category created")
	return category, nil
}

func applyCategoryInput(c *models.Category, in *models.CategoryInput) {
	if in.Description != nil {
		c.Description = in.Description.Trimmed()
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if in.Order != nil {
		c.Order = *in.Order
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.ShowInMenu != nil {
		c.ShowInMenu = *in.ShowInMenu
	}
}

func (s *categoryService) Update(ctx context.Context, p *policy.Principal, identifier string, in *models.CategoryInput) (*models.Category, error) {
	if err := s.authorize(p); err != nil {
		return nil, err
	}
	category, err := s.find(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateCategory(in, false); err != nil {
		return nil, translate(err, "category")
	}

	switch {
	case in.ClearParent:
		category.ParentID = nil
	case in.ParentID != nil:
		if err := s.checkParent(ctx, category.ID, *in.ParentID); err != nil {
			return nil, err
		}
		parentID := *in.ParentID
		category.ParentID = &parentID
	}

	if in.Name != nil {
		name := in.Name.Trimmed()
		if name.En != category.Name.En {
			category.Slug, err = uniqueSlug(ctx, name.En, "category", category.ID, s.repos.Category.SlugExists)
			if err != nil {
				return nil, translate(err, "category")
			}
		}
		category.Name = name
	}
	applyCategoryInput(category, in)
	category.UpdatedAt = s.now()

	if err := s.repos.Category.Update(ctx, category); err != nil {
		return nil, translate(err, "category")
	}

	s.log.Info().Str("category_id", category.ID).Msg("Category updated")
	return category, nil
}

// checkParent rejects a parent that is the category itself or one of its
// descendants.
func (s *categoryService) checkParent(ctx context.Context, id, parentID string) error {
	if parentID == id {
		return invalid("parentId", "category cannot be its own parent")
	}

	seen := map[string]bool{}
	current := parentID
	for current != "" && !seen[current] {
		seen[current] = true
		parent, err := s.repos.Category.GetByID(ctx, current)
		if err != nil {
			return translate(err, "category")
		}
		if parent == nil {
			if current == parentID {
				return invalid("parentId", "parent category not found")
			}
			return nil
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == id {
			return invalid("parentId", "category cannot be moved under its own descendant")
		}
		current = *parent.ParentID
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, p *policy.Principal, identifier string) error {
	if err := s.authorize(p); err != nil {
		return err
	}
	category, err := s.find(ctx, identifier)
	if err != nil {
		return err
	}

	articles, err := s.repos.Article.Count(ctx, repository.ArticleFilter{CategoryID: category.ID})
	if err != nil {
		return translate(err, "articles")
	}
	if articles > 0 {
		return apperr.Conflict("cannot delete a category that has articles")
	}
	children, err := s.repos.Category.Count(ctx, repository.CategoryFilter{ParentID: category.ID})
	if err != nil {
		return translate(err, "categories")
	}
	if children > 0 {
		return apperr.Conflict("cannot delete a category that has subcategories")
	}

	if err := s.repos.Category.Delete(ctx, category.ID); err != nil {
		return translate(err, "category")
	}

	s.log.Info().Str("category_id", category.ID).Msg("Category deleted")
	return nil
}
