package nocodb_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/nocodb"
)

type recorded struct {
	method string
	query  string
	token  string
	body   map[string]any
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, query: r.URL.RawQuery, token: r.Header.Get("xc-token")}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestList_FlatV2Shape(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{"list":[{"Id":1,"Title":"Milk #dairy","IsDone":false},{"Id":2,"Title":"Bread","IsDone":true}],"pageInfo":{}}`)
	c := nocodb.New(srv.URL+"/", "secret")

	items, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.ID("1"), items[0].ID)
	assert.Equal(t, "Milk #dairy", items[0].Title)
	assert.True(t, items[1].IsDone)

	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodGet, (*calls)[0].method)
	assert.Equal(t, "limit=100", (*calls)[0].query)
	assert.Equal(t, "secret", (*calls)[0].token)
}

func TestList_NestedV3Shape(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"records":[{"id":5,"fields":{"Title":"Eggs","IsDone":true}}]}`)
	items, err := nocodb.New(srv.URL, "t").List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.Item{ID: "5", Title: "Eggs", IsDone: true}, items[0])
}

func TestList_BareArrayAndUnknownEnvelope(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[{"Id":"a","Title":"x"}]`)
	items, err := nocodb.New(srv.URL, "t").List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	srv2, _ := newServer(t, http.StatusOK, `{"something":"else"}`)
	items, err = nocodb.New(srv2.URL, "t").List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestList_CustomPageLimit(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `[]`)
	_, err := nocodb.New(srv.URL, "t", nocodb.WithPageLimit(25)).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "limit=25", (*calls)[0].query)
}

func TestFetchErrorCarriesStatusAndBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"msg":"bad token"}`)
	_, err := nocodb.New(srv.URL, "t").List(context.Background())
	require.Error(t, err)

	var fe *nocodb.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusUnauthorized, fe.Status)
	assert.Equal(t, `{"msg":"bad token"}`, fe.Body)
}

func TestCreateUpdateDeleteBodies(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{}`)
	c := nocodb.New(srv.URL, "tok")
	ctx := context.Background()

	require.NoError(t, c.Create(ctx, nocodb.Fields{"Title": "Apples", "IsDone": false}))
	require.NoError(t, c.Update(ctx, model.ID("3"), nocodb.Fields{"IsDone": true}))
	require.NoError(t, c.Delete(ctx, model.ID(`"rec9"`)))

	require.Len(t, *calls, 3)
	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.Equal(t, map[string]any{"fields": map[string]any{"Title": "Apples", "IsDone": false}}, (*calls)[0].body)

	assert.Equal(t, http.MethodPatch, (*calls)[1].method)
	assert.Equal(t, map[string]any{"id": float64(3), "fields": map[string]any{"IsDone": true}}, (*calls)[1].body)

	assert.Equal(t, http.MethodDelete, (*calls)[2].method)
	assert.Equal(t, map[string]any{"id": "rec9"}, (*calls)[2].body)
	for _, call := range *calls {
		assert.Equal(t, "tok", call.token)
	}
}

func TestDeleteFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, "not found")
	err := nocodb.New(srv.URL, "t").Delete(context.Background(), "1")
	var fe *nocodb.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 404, fe.Status)
	assert.Contains(t, err.Error(), "api error 404: not found")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithHTTPClient_UsesGivenTransport(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{"list":[]}`)
	var seen []string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		return http.DefaultTransport.RoundTrip(r)
	})}
	c := nocodb.New(srv.URL+"/api/v2/tables/t1/records/", "t", nocodb.WithHTTPClient(hc))

	assert.Equal(t, srv.URL+"/api/v2/tables/t1/records", c.TableURL())
	require.NoError(t, c.Delete(context.Background(), "3"))
	assert.Equal(t, []string{"DELETE /api/v2/tables/t1/records"}, seen)
	require.Len(t, *calls, 1)
}

func TestWithTimeout_AbortsSlowServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := nocodb.New(srv.URL, "t", nocodb.WithTimeout(20*time.Millisecond))
	start := time.Now()
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
