package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		Name:        "Ada",
		Email:       "ada@example.com",
		Company:     "Engines Ltd",
		Subject:     "Consulting",
		Message:     "Can we talk <soon>?",
		ProjectType: "web",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		fields []string
	}{
		{"valid", func(*Request) {}, nil},
		{"bad email", func(r *Request) { r.Email = "not-an-email" }, []string{"email"}},
		{"email without dot", func(r *Request) { r.Email = "a@b" }, []string{"email"}},
		{"email with space", func(r *Request) { r.Email = "a b@c.d" }, []string{"email"}},
		{"blank fields", func(r *Request) {
			r.Name = " "
			r.Email = ""
			r.Subject = ""
			r.Message = "\n"
		}, []string{"name", "email", "subject", "message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			keys := make([]string, 0, len(verr.Fields))
			for k := range verr.Fields {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.fields, keys)
		})
	}
}

type recordingMailer struct {
	sent []Message
	fail error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestSubmit(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, Config{From: "site@example.com", To: "owner@example.com", SiteName: "Example"}, nil)

	require.NoError(t, svc.Submit(context.Background(), validRequest()))
	require.Len(t, mailer.sent, 2)

	owner := mailer.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, owner.To)
	assert.Equal(t, "ada@example.com", owner.ReplyTo)
	assert.Equal(t, "New contact form submission: Consulting", owner.Subject)
	assert.Contains(t, owner.HTML, "Can we talk &lt;soon&gt;?")
	assert.Contains(t, owner.Text, "Company: Engines Ltd")

	ack := mailer.sent[1]
	assert.Equal(t, []string{"ada@example.com"}, ack.To)
	assert.Contains(t, ack.Text, "Example")
}

func TestSubmit_Errors(t *testing.T) {
	ctx := context.Background()

	unconfigured := NewService(&recordingMailer{}, Config{}, nil)
	assert.ErrorIs(t, unconfigured.Submit(ctx, validRequest()), ErrNotConfigured)

	noKey := NewService(NewHTTPMailer("", ""), Config{From: "a@b.c", To: "d@e.f"}, nil)
	assert.False(t, noKey.Configured())
	assert.ErrorIs(t, noKey.Submit(ctx, validRequest()), ErrNotConfigured)

	bad := validRequest()
	bad.Email = "nope"
	var verr *ValidationError
	assert.ErrorAs(t, unconfigured.Submit(ctx, bad), &verr)

	boom := errors.New("provider down")
	failing := NewService(&recordingMailer{fail: boom}, Config{From: "a@b.c", To: "d@e.f"}, nil)
	err := failing.Submit(ctx, validRequest())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "owner notification")
}

func TestHTTPMailer(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "re_test")
	msg := Message{From: "a@b.c", To: []string{"d@e.f"}, Subject: "hi", Text: "hello"}
	require.NoError(t, m.Send(context.Background(), msg))
	assert.Equal(t, msg, got)
}

func TestHTTPMailer_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	err := NewHTTPMailer(srv.URL, "re_test").Send(context.Background(), Message{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "invalid from")
}
