package api

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// Book is one dashboard/search row.
type Book struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	IsPhysical bool    `json:"is_physical"`
	Status     string  `json:"status"`
}

// OrderLine is a returnable order item as shown on the dashboard.
type OrderLine struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	BookTitle string `json:"book_title"`
	Quantity  int    `json:"quantity"`
}

// Class is one row of the class reports listing.
type Class struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Sessions  int    `json:"sessions_count"`
	StartDate int64  `json:"start_date"`
}

// Exam describes an active exam attempt: the identifier used by the finish
// endpoint and the whole-second time remaining, both fixed at load.
type Exam struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Snapshot is the dashboard's working set.
type Snapshot struct {
	Books []Book
	Lines []OrderLine
}

// Dashboard fetches the dashboard working set. The two listings are
// independent, so they are fetched concurrently.
func (c *Client) Dashboard(ctx context.Context, stockFilter string) (Snapshot, error) {
	var snap Snapshot

	bookQuery := url.Values{}
	if stockFilter != "" {
		bookQuery.Set("in_stock", stockFilter)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(ctx, "/books/", bookQuery, &snap.Books)
	})
	g.Go(func() error {
		return c.getJSON(ctx, "/orders/my-orders/", nil, &snap.Lines)
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// SearchBooks queries the book search listing with the given parameters.
func (c *Client) SearchBooks(ctx context.Context, params url.Values) ([]Book, error) {
	var books []Book
	if err := c.getJSON(ctx, "/books/search/", params, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// LowStockParams is the fixed query the dashboard shortcut navigates with.
func LowStockParams() url.Values {
	return url.Values{
		"in_stock": {"yes"},
		"status":   {"active"},
		"sort_by":  {"stock"},
	}
}

// Classes fetches the class reports listing.
func (c *Client) Classes(ctx context.Context) ([]Class, error) {
	var classes []Class
	if err := c.getJSON(ctx, "/courses/reports/", nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// Exam fetches the active exam descriptor.
func (c *Client) Exam(ctx context.Context, id int64) (Exam, error) {
	var exam Exam
	if err := c.getJSON(ctx, fmt.Sprintf("/exams/%d/", id), nil, &exam); err != nil {
		return Exam{}, err
	}
	return exam, nil
}
