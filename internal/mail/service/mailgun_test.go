package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BanhTheCake/getnokori/internal/config"
	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
)

func mailgunConfig(base string) config.Config {
	return config.Config{
		MailgunAPIBase: base,
		MailgunAPIKey:  "key-test",
		MailgunDomain:  "mg.example.com",
	}
}

func TestMailgunSend_PostsFormAndParsesMessageID(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v3/mg.example.com/messages", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "api", user)
		assert.Equal(t, "key-test", pass)

		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<20240101.abc@mg.example.com>","message":"Queued. Thank you."}`))
	}))
	defer srv.Close()

	m := NewMailgun(mockSettings{}, mailgunConfig(srv.URL))
	id, err := m.Send(context.Background(), uuid.New(), domain.VendorRequest{
		To:      "to@example.com",
		From:    "from@example.com",
		Subject: "hello",
		Text:    "plain",
		HTML:    "<p>rich</p>",
		Headers: map[string]string{"X-Custom": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "20240101.abc@mg.example.com", id, "angle brackets must be stripped")

	assert.Equal(t, "to@example.com", gotForm["to"])
	assert.Equal(t, "from@example.com", gotForm["from"])
	assert.Equal(t, "hello", gotForm["subject"])
	assert.Equal(t, "plain", gotForm["text"])
	assert.Equal(t, "<p>rich</p>", gotForm["html"])
	assert.Equal(t, "1", gotForm["h:X-Custom"], "custom headers must carry the vendor prefix")
}

func TestMailgunSend_VendorRejectionWrapsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"'to' parameter is not a valid address"}`))
	}))
	defer srv.Close()

	m := NewMailgun(mockSettings{}, mailgunConfig(srv.URL))
	_, err := m.Send(context.Background(), uuid.New(), domain.VendorRequest{To: "bad", From: "f@e.com", Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrVendorSendFailed))
	assert.Contains(t, err.Error(), "not a valid address")
}

func TestMailgunSend_NotConfigured(t *testing.T) {
	m := NewMailgun(mockSettings{}, config.Config{})
	_, err := m.Send(context.Background(), uuid.New(), domain.VendorRequest{To: "a@b.c", From: "f@e.com", Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrVendorSendFailed))
}

func TestMapHeaders(t *testing.T) {
	mapped := mapHeaders(map[string]string{"X-One": "1", "h:X-Two": "2"})
	assert.Equal(t, map[string]string{"h:X-One": "1", "h:X-Two": "2"}, mapped)
	assert.Nil(t, mapHeaders(nil))
}

func TestParseMailID(t *testing.T) {
	assert.Equal(t, "abc@mg.example.com", parseMailID("<abc@mg.example.com>"))
	assert.Equal(t, "abc@mg.example.com", parseMailID("abc@mg.example.com"))
	assert.Equal(t, "abc@mg.example.com", parseMailID(" <abc@mg.example.com> "))
}
