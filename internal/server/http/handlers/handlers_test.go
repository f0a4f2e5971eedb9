package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderstatus/internal/domain/errors"
	"github.com/polkiloo/orderstatus/internal/domain/model"
	"github.com/polkiloo/orderstatus/internal/server/http/dto"
	"github.com/polkiloo/orderstatus/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/orderstatus/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeDetail(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected error body, got %q: %v", resp.Body.String(), err)
	}
	return body.Detail
}

func asIdentity(identity string) func(*gin.Context) {
	return func(c *gin.Context) { c.Set(middleware.IdentityContextKey, identity) }
}

func TestCurrentIdentity(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentIdentity(c); got != "" {
		t.Fatalf("expected empty identity when not set, got %q", got)
	}

	c.Set(middleware.IdentityContextKey, "U1")
	if got := CurrentIdentity(c); got != "U1" {
		t.Fatalf("expected U1, got %q", got)
	}
}

func TestWriteErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domainErrors.ErrNotFound, http.StatusNotFound},
		{domainErrors.ErrDuplicateOrder, http.StatusConflict},
		{domainErrors.ErrInvalidOrder, http.StatusBadRequest},
		{domainErrors.ErrInvalidStateType, http.StatusBadRequest},
		{domainErrors.ErrStageLocked, http.StatusBadRequest},
		{domainErrors.ErrPrerequisiteNotMet, http.StatusBadRequest},
		{domainErrors.ErrUnauthorized, http.StatusForbidden},
		{fmt.Errorf("save: %w: %w", domainErrors.ErrStorageUnavailable, errors.New("conn reset")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			resp := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(resp)
			writeError(c, tt.err)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{CreateFn: func(_ context.Context, orderID int64, requesterID, creatorID string) (*model.Order, error) {
		if orderID != 42 || requesterID != "U1" || creatorID != "U2" {
			t.Fatalf("unexpected create arguments: %d %q %q", orderID, requesterID, creatorID)
		}
		return &model.Order{OrderID: orderID, RequesterID: requesterID, CreatorID: creatorID, CreatedAt: now, UpdatedAt: now}, nil
	}})

	body := []byte(`{"order_id":42,"requester_id":"U1","created_by":"U2"}`)
	resp := performRequest(t, http.MethodPost, "/orders/", "/orders/", handler.Create, nil, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var payload dto.OrderMessageResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Message != "Order created successfully" {
		t.Fatalf("unexpected message %q", payload.Message)
	}
	if payload.Order.OrderID != 42 || payload.Order.CreatedBy != "U2" || payload.Order.Requested {
		t.Fatalf("unexpected order payload %+v", payload.Order)
	}
	if !payload.Order.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, payload.Order.CreatedAt)
	}
}

func TestOrderHandlerCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.OrderFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "string order id", body: []byte(`{"order_id":"abc","requester_id":"U1","created_by":"U2"}`), status: http.StatusBadRequest},
		{name: "duplicate", body: []byte(`{"order_id":1,"requester_id":"U1","created_by":"U2"}`), facade: testhelpers.OrderFacadeStub{CreateFn: func(context.Context, int64, string, string) (*model.Order, error) {
			return nil, domainErrors.ErrDuplicateOrder
		}}, status: http.StatusConflict},
		{name: "invalid", body: []byte(`{"order_id":1,"requester_id":"","created_by":"U2"}`), facade: testhelpers.OrderFacadeStub{CreateFn: func(context.Context, int64, string, string) (*model.Order, error) {
			return nil, domainErrors.ErrInvalidOrder
		}}, status: http.StatusBadRequest},
		{name: "storage", body: []byte(`{"order_id":1,"requester_id":"U1","created_by":"U2"}`), facade: testhelpers.OrderFacadeStub{CreateFn: func(context.Context, int64, string, string) (*model.Order, error) {
			return nil, domainErrors.ErrStorageUnavailable
		}}, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/orders/", "/orders/", NewOrderHandler(tt.facade).Create, nil, tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if decodeDetail(t, resp) == "" {
				t.Fatal("expected detail in error body")
			}
		})
	}
}

func TestOrderHandlerStatus(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{StatusFn: func(_ context.Context, orderID int64) (*model.Status, error) {
		if orderID == 404 {
			return nil, domainErrors.ErrNotFound
		}
		return &model.Status{OrderID: orderID, Requested: true, Accepted: true}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/orders/:order_id/status", "/orders/7/status", handler.Status, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var status dto.StatusResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	want := dto.StatusResponse{OrderID: 7, Requested: true, Accepted: true}
	if status != want {
		t.Fatalf("unexpected status %+v", status)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:order_id/status", "/orders/404/status", handler.Status, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if got := decodeDetail(t, resp); got != "Order not found" {
		t.Fatalf("unexpected detail %q", got)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:order_id/status", "/orders/abc/status", handler.Status, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for non-numeric id, got %d", resp.Code)
	}
}

func TestOrderHandlerUpdate(t *testing.T) {
	var gotActor, gotState string
	var gotValue bool
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{UpdateFn: func(_ context.Context, orderID int64, actor, stateType string, newValue bool) (*model.Order, error) {
		gotActor, gotState, gotValue = actor, stateType, newValue
		return &model.Order{OrderID: orderID, RequesterID: "U1", CreatorID: "U2", Requested: newValue}, nil
	}})

	body := []byte(`{"state_type":"requested","new_value":true}`)
	resp := performRequest(t, http.MethodPut, "/orders/:order_id/update", "/orders/5/update", handler.Update, asIdentity("U1"), body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotActor != "U1" || gotState != "requested" || !gotValue {
		t.Fatalf("unexpected facade arguments: %q %q %v", gotActor, gotState, gotValue)
	}

	var payload dto.OrderMessageResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Message != "State requested updated" || !payload.Order.Requested {
		t.Fatalf("unexpected payload %+v", payload)
	}

	// false is a legitimate value and must reach the facade.
	body = []byte(`{"state_type":"requested","new_value":false}`)
	resp = performRequest(t, http.MethodPut, "/orders/:order_id/update", "/orders/5/update", handler.Update, asIdentity("U1"), body)
	if resp.Code != http.StatusOK || gotValue {
		t.Fatalf("expected false to be forwarded, status=%d value=%v", resp.Code, gotValue)
	}
}

func TestOrderHandlerUpdateFailures(t *testing.T) {
	failWith := func(err error) testhelpers.OrderFacadeStub {
		return testhelpers.OrderFacadeStub{UpdateFn: func(context.Context, int64, string, string, bool) (*model.Order, error) {
			return nil, err
		}}
	}
	valid := []byte(`{"state_type":"accepted","new_value":true}`)

	tests := []struct {
		name   string
		target string
		facade testhelpers.OrderFacadeStub
		body   []byte
		status int
	}{
		{name: "bad id", target: "/orders/x/update", body: valid, status: http.StatusBadRequest},
		{name: "bad json", target: "/orders/1/update", body: []byte("{"), status: http.StatusBadRequest},
		{name: "missing value", target: "/orders/1/update", body: []byte(`{"state_type":"accepted"}`), status: http.StatusBadRequest},
		{name: "not found", target: "/orders/1/update", body: valid, facade: failWith(domainErrors.ErrNotFound), status: http.StatusNotFound},
		{name: "invalid state", target: "/orders/1/update", body: []byte(`{"state_type":"shipped","new_value":true}`), facade: failWith(domainErrors.ErrInvalidStateType), status: http.StatusBadRequest},
		{name: "locked", target: "/orders/1/update", body: valid, facade: failWith(domainErrors.ErrStageLocked), status: http.StatusBadRequest},
		{name: "unauthorized", target: "/orders/1/update", body: valid, facade: failWith(domainErrors.ErrUnauthorized), status: http.StatusForbidden},
		{name: "prerequisite", target: "/orders/1/update", body: valid, facade: failWith(domainErrors.ErrPrerequisiteNotMet), status: http.StatusBadRequest},
		{name: "storage", target: "/orders/1/update", body: valid, facade: failWith(domainErrors.ErrStorageUnavailable), status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPut, "/orders/:order_id/update", tt.target, NewOrderHandler(tt.facade).Update, asIdentity("U2"), tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerListings(t *testing.T) {
	var gotRequester, gotCreator, gotState string
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{
		OrdersByRequesterFn: func(_ context.Context, requesterID, state string) ([]model.Order, error) {
			gotRequester, gotState = requesterID, state
			return []model.Order{{OrderID: 1, RequesterID: requesterID}, {OrderID: 2, RequesterID: requesterID}}, nil
		},
		OrdersByCreatorFn: func(_ context.Context, creatorID, state string) ([]model.Order, error) {
			gotCreator = creatorID
			if state == "bogus" {
				return nil, domainErrors.ErrInvalidStateType
			}
			return []model.Order{}, nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/orders/user/:user_id", "/orders/user/U1?state=paid", handler.ListByRequester, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotRequester != "U1" || gotState != "paid" {
		t.Fatalf("unexpected arguments %q %q", gotRequester, gotState)
	}
	var orders []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &orders); err != nil {
		t.Fatalf("failed to decode orders: %v", err)
	}
	if len(orders) != 2 || orders[1].OrderID != 2 {
		t.Fatalf("unexpected orders %+v", orders)
	}

	resp = performRequest(t, http.MethodGet, "/orders/created_by/:created_by", "/orders/created_by/U2", handler.ListByCreator, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotCreator != "U2" {
		t.Fatalf("unexpected creator %q", gotCreator)
	}
	if body := resp.Body.String(); body != "[]" {
		t.Fatalf("expected empty array, got %q", body)
	}

	resp = performRequest(t, http.MethodGet, "/orders/created_by/:created_by", "/orders/created_by/U2?state=bogus", handler.ListByCreator, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown filter, got %d", resp.Code)
	}
}

func TestHealthHandlerPing(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/ping", "/ping", NewHealthHandler(testhelpers.HealthFacadeStub{}).Ping, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/ping", "/ping", NewHealthHandler(testhelpers.HealthFacadeStub{Err: domainErrors.ErrStorageUnavailable}).Ping, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

var _ Facade = testhelpers.FacadeStub{}
