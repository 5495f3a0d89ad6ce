package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type staticTokens string

func (s staticTokens) Token() (string, error) { return string(s), nil }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticTokens("tok-1"), zaptest.NewLogger(t))
}

func TestPlaceOrder_Success(t *testing.T) {
	var gotToken, gotContentType, gotRequestID, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-CSRFToken")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true, "message": "Order created successfully. Total: $42.00", "order_id": 7}`))
	})

	out, err := c.PlaceOrder(context.Background(), OrderRequest{BookID: 3, Quantity: 2})
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, "Order created successfully. Total: $42.00", out.Message)
	assert.Equal(t, int64(7), out.OrderID)
	assert.Equal(t, "/books/quick-order/", gotPath)
	assert.Equal(t, "tok-1", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
}

func TestPlaceOrder_ServerReportsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "Only 3 items available in stock"}`))
	})

	out, err := c.PlaceOrder(context.Background(), OrderRequest{BookID: 3, Quantity: 9})
	require.NoError(t, err)

	assert.False(t, out.OK)
	assert.Equal(t, "Only 3 items available in stock", out.Reason)
}

func TestPlaceOrder_ValidationBlocksNetwork(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.PlaceOrder(context.Background(), OrderRequest{BookID: 0, Quantity: 1})
	assert.Error(t, err)
	_, err = c.PlaceOrder(context.Background(), OrderRequest{BookID: 3, Quantity: 0})
	assert.Error(t, err)
	assert.False(t, called, "invalid requests must not reach the network")
}

func TestProcessReturn_AdvisoryBoundNotEnforced(t *testing.T) {
	// Quantity above the UI's advisory max must still be sent; the server
	// decides.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "Cannot return more than 2 items"}`))
	})

	out, err := c.ProcessReturn(context.Background(), ReturnRequest{
		OrderItemID: 11,
		Quantity:    99,
		Reason:      "damaged",
	})
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, "Cannot return more than 2 items", out.Reason)
}

func TestProcessReturn_Success(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true, "message": "2 items returned successfully. Stock updated.", "new_stock": 14}`))
	})

	out, err := c.ProcessReturn(context.Background(), ReturnRequest{OrderItemID: 11, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, "/books/return-book/", gotPath)
	require.NotNil(t, out.NewStock)
	assert.Equal(t, 14, *out.NewStock)
}

func TestPostAction_BadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := c.PlaceOrder(context.Background(), OrderRequest{BookID: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestPostAction_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := c.PlaceOrder(context.Background(), OrderRequest{BookID: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrBadBody)
}

func TestPostAction_TransportFault(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := New(url, staticTokens("tok"), zaptest.NewLogger(t))

	_, err := c.PlaceOrder(context.Background(), OrderRequest{BookID: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestFinishExam(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"success": true, "message": "Exam submitted"}`))
	})

	out, err := c.FinishExam(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, "/exams/42/finish/", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestDashboard_FetchesBothListings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books/":
			assert.Equal(t, "yes", r.URL.Query().Get("in_stock"))
			w.Write([]byte(`[{"id": 1, "title": "Dune", "stock": 5, "price": 9.99, "is_physical": true}]`))
		case "/orders/my-orders/":
			w.Write([]byte(`[{"id": 11, "order_id": 4, "book_title": "Dune", "quantity": 2}]`))
		default:
			http.NotFound(w, r)
		}
	})

	snap, err := c.Dashboard(context.Background(), "yes")
	require.NoError(t, err)
	require.Len(t, snap.Books, 1)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "Dune", snap.Books[0].Title)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
}

func TestSearchBooks_LowStockShortcutParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "yes", q.Get("in_stock"))
		assert.Equal(t, "active", q.Get("status"))
		assert.Equal(t, "stock", q.Get("sort_by"))
		w.Write([]byte(`[]`))
	})

	_, err := c.SearchBooks(context.Background(), LowStockParams())
	require.NoError(t, err)
}
