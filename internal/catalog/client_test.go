package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
	"BillingCurrency": "USD",
	"Items": [
		{
			"retailPrice": 0.096,
			"armRegionName": "eastus",
			"meterName": "D2s v3",
			"productName": "Virtual Machines Dsv3 Series",
			"skuName": "D2s v3",
			"serviceName": "Virtual Machines",
			"unitOfMeasure": "1 Hour",
			"armSkuName": "Standard_D2s_v3"
		}
	],
	"NextPageLink": "",
	"Count": 1
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(zerolog.Nop(),
		WithBaseURL(srv.URL),
		WithBackoffUnit(time.Millisecond),
	)
	t.Cleanup(c.Close)
	return c
}

func TestFetchDecodesPage(t *testing.T) {
	var gotQuery atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Encode())
		w.Write([]byte(samplePage))
	}))

	page, err := client.Fetch(context.Background(), Query{ServiceName: "Virtual Machines", Limit: 5})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "USD", page.BillingCurrency)
	assert.Equal(t, 0.096, page.Items[0].RetailPrice)
	assert.Equal(t, "Standard_D2s_v3", page.Items[0].ArmSkuName)
	assert.Empty(t, page.NextPageLink)

	query := gotQuery.Load().(string)
	assert.Contains(t, query, "api-version="+APIVersion)
	assert.Contains(t, query, "%24top=5")
}

func TestFetchRetriesRateLimit(t *testing.T) {
	var attempts atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(samplePage))
	}))

	page, err := client.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.Fetch(context.Background(), Query{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(maxRetries+1), attempts.Load())
}

func TestFetchDoesNotRetryServerError(t *testing.T) {
	var attempts atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Fetch(context.Background(), Query{})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestFetchHonorsContextDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(zerolog.Nop(),
		WithBaseURL(srv.URL),
		WithBackoffUnit(time.Minute),
	)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, Query{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchBadJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := client.Fetch(context.Background(), Query{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
}
