package notifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/notifier"
)

var report = domain.Report{ID: "r-1", SubmitterID: "c-1", Material: "PET", WeightKg: 4.2, Audited: true}

func TestMint_OK(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"txHash":"0xabc"}`))
	}))
	defer srv.Close()

	receipt, err := notifier.New(notifier.Config{BaseURL: srv.URL + "/"}).Mint(context.Background(), report)

	require.NoError(t, err)
	assert.Equal(t, domain.MintReceipt{ReportID: "r-1", TxHash: "0xabc"}, receipt)
	assert.Equal(t, "r-1", got["reportId"])
	assert.Equal(t, "PET", got["material"])
}

func TestMint_NestedTxHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"result":{"txHash":"0xdef","block":12}}`))
	}))
	defer srv.Close()

	receipt, err := notifier.New(notifier.Config{BaseURL: srv.URL}).Mint(context.Background(), report)

	require.NoError(t, err)
	assert.Equal(t, "0xdef", receipt.TxHash)
}

func TestMint_Non2xx_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`node syncing`))
	}))
	defer srv.Close()

	_, err := notifier.New(notifier.Config{BaseURL: srv.URL}).Mint(context.Background(), report)

	var serr *notifier.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusServiceUnavailable, serr.StatusCode)
	assert.Equal(t, int32(1), calls.Load(), "failures are never retried")
}

func TestMint_MissingTxHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer srv.Close()

	_, err := notifier.New(notifier.Config{BaseURL: srv.URL}).Mint(context.Background(), report)

	assert.ErrorContains(t, err, "txHash")
}

func TestMint_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := notifier.New(notifier.Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}).Mint(context.Background(), report)

	require.Error(t, err)
}

func TestMint_NotConfigured(t *testing.T) {
	_, err := notifier.New(notifier.Config{}).Mint(context.Background(), report)

	assert.ErrorIs(t, err, notifier.ErrNotConfigured)
}
