package models

import "time"

// Category groups articles; categories form a forest through ParentID.
type Category struct {
	ID          string    `json:"id"`
	Name        Localized `json:"name"`
	Slug        string    `json:"slug"`
	Description Localized `json:"description"`
	ParentID    *string   `json:"parentId"`
	Image       string    `json:"image,omitempty"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	ShowInMenu  bool      `json:"showInMenu"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryNode is a category with its active descendants.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        *Localized `json:"name"`
	Description *Localized `json:"description"`
	ParentID    *string    `json:"parentId"`
	ClearParent bool       `json:"clearParent"`
	Image       *string    `json:"image"`
	Order       *int       `json:"order"`
	IsActive    *bool      `json:"isActive"`
	ShowInMenu  *bool      `json:"showInMenu"`
}

// CategoryArticles is a category together with a page of its published articles.
type CategoryArticles struct {
	Category *Category `json:"category"`
	Articles []*Article `json:"articles"`
}
