package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model is one catalog listing. The wire shape (including the `_id` key)
// matches what browser clients already consume.
type Model struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Framework   string             `json:"framework" bson:"framework"`
	UseCase     string             `json:"useCase" bson:"useCase"`
	Dataset     string             `json:"dataset" bson:"dataset"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	CreatedBy   string             `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	Purchased   int64              `json:"purchased" bson:"purchased"`
}

// CreateInput is the client payload for a new listing. createdBy, createdAt
// and purchased are server-owned and have no input counterpart.
type CreateInput struct {
	Name        string `json:"name"`
	Framework   string `json:"framework"`
	UseCase     string `json:"useCase"`
	Dataset     string `json:"dataset"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// UpdateInput is a partial update. Nil fields are dropped rather than
// applied; immutable fields (id, purchased, createdBy, createdAt) have no
// counterpart here, so a client supplying them has them silently ignored.
type UpdateInput struct {
	Name        *string `json:"name"`
	Framework   *string `json:"framework"`
	UseCase     *string `json:"useCase"`
	Dataset     *string `json:"dataset"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// fields returns the set of field assignments the patch actually carries.
func (in UpdateInput) fields() map[string]string {
	set := map[string]string{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Framework != nil {
		set["framework"] = *in.Framework
	}
	if in.UseCase != nil {
		set["useCase"] = *in.UseCase
	}
	if in.Dataset != nil {
		set["dataset"] = *in.Dataset
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Image != nil {
		set["image"] = *in.Image
	}
	return set
}

// ListFilter selects and pages catalog listings.
type ListFilter struct {
	Query      string   // case-insensitive substring match on name
	Frameworks []string // match any of these frameworks
	Page       int
	Limit      int
}

const (
	defaultPageSize = 12
	maxPageSize     = 48
)

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
}

// ListResult is one page of listings plus pagination totals.
type ListResult struct {
	Items []*Model `json:"items"`
	Total int64    `json:"total"`
	Page  int      `json:"page"`
	Pages int      `json:"pages"`
}
