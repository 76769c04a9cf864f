package channels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioSMSSenderSuccess(t *testing.T) {
	var gotTo, gotFrom, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotTo = r.FormValue("To")
		gotFrom = r.FormValue("From")
		gotBody = r.FormValue("Body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer srv.Close()

	sender := NewTwilioSMSSender("AC1", "token", "+15550001111", nil).WithBaseURL(srv.URL)
	err := sender.Send(context.Background(), "+15552223333", Message{Body: "time for a check-up"})

	require.NoError(t, err)
	assert.Equal(t, "+15552223333", gotTo)
	assert.Equal(t, "+15550001111", gotFrom)
	assert.Equal(t, "time for a check-up", gotBody)
}

func TestTwilioSMSSenderClientErrorNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"invalid 'To' number","status":400}`))
	}))
	defer srv.Close()

	sender := NewTwilioSMSSender("AC1", "token", "+15550001111", nil).WithBaseURL(srv.URL)
	err := sender.Send(context.Background(), "bogus", Message{Body: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid 'To' number")
	assert.Equal(t, 1, calls, "4xx errors other than 429 must not retry")
}

func TestTwilioSMSSenderRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sender := NewTwilioSMSSender("AC1", "token", "+15550001111", nil).WithBaseURL(srv.URL)
	err := sender.Send(context.Background(), "+15552223333", Message{Body: "hi"})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestTwilioSMSSenderValidation(t *testing.T) {
	sender := NewTwilioSMSSender("", "", "+15550001111", nil)
	err := sender.Send(context.Background(), "+15552223333", Message{Body: "hi"})
	assert.ErrorContains(t, err, "credentials missing")

	sender = NewTwilioSMSSender("AC1", "token", "+15550001111", nil)
	err = sender.Send(context.Background(), "", Message{Body: "hi"})
	assert.ErrorContains(t, err, "recipient required")

	err = sender.Send(context.Background(), "+15552223333", Message{Body: "  "})
	assert.ErrorContains(t, err, "body required")
}

func TestTwilioWhatsAppSenderPrefixesAddresses(t *testing.T) {
	var gotTo, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotTo = r.FormValue("To")
		gotFrom = r.FormValue("From")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sender := NewTwilioWhatsAppSender("AC1", "token", "+15550001111", nil).WithBaseURL(srv.URL)
	err := sender.Send(context.Background(), "+15552223333", Message{Body: "oi"})

	require.NoError(t, err)
	assert.Equal(t, "whatsapp:+15552223333", gotTo)
	assert.Equal(t, "whatsapp:+15550001111", gotFrom)
}
