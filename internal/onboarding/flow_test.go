package onboarding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/docuport/console-gateway/internal/config"
	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/internal/observability"
	"github.com/docuport/console-gateway/internal/upstream"
	"github.com/docuport/console-gateway/pkg/util"
)

type fakeBackend struct {
	invitation  *domain.Invitation
	consumeErr  int
	verifyCalls int
	consumeCall int
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /invitations/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.verifyCalls++
		if f.invitation == nil || r.PathValue("id") != f.invitation.UniqueID {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(f.invitation)
	})
	mux.HandleFunc("POST /invitations/{id}/consume", func(w http.ResponseWriter, r *http.Request) {
		f.consumeCall++
		if f.consumeErr != 0 {
			w.WriteHeader(f.consumeErr)
			_, _ = w.Write([]byte(`{"message":"weak password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(upstream.LoginResult{
			Token:    "invited-token",
			Identity: domain.Identity{ID: "u-new", Email: f.invitation.Email, Role: f.invitation.ProposedRole},
			Tenant:   &domain.Tenant{ID: "t-acme", Name: "Acme"},
		})
	})
	return mux
}

func newTestFlow(t *testing.T, backend *fakeBackend) *Flow {
	t.Helper()
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(server.Close)
	client := upstream.New(config.UpstreamConfig{BaseURL: server.URL, TimeoutSeconds: 5}, zap.NewNop(), observability.NewMetrics())
	return NewFlow(client)
}

func validInvitation() *domain.Invitation {
	return &domain.Invitation{
		UniqueID:     "inv-1",
		Email:        "carol@acme.test",
		FullName:     "Carol",
		ProposedRole: domain.RoleEmployee,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func TestVerifyValidToken(t *testing.T) {
	flow := newTestFlow(t, &fakeBackend{invitation: validInvitation()})

	state, err := flow.VerifyToken(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if state != StateTokenValid {
		t.Errorf("state = %s, want %s", state, StateTokenValid)
	}

	inv := flow.Invitation()
	if inv == nil || inv.Email != "carol@acme.test" || inv.ProposedRole != domain.RoleEmployee {
		t.Errorf("invitation surfaced wrong: %+v", inv)
	}
}

func TestVerifyUnknownToken(t *testing.T) {
	flow := newTestFlow(t, &fakeBackend{})

	state, err := flow.VerifyToken(context.Background(), "nope")
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if state != StateTokenInvalid {
		t.Errorf("state = %s, want %s", state, StateTokenInvalid)
	}
}

func TestVerifyConsumedToken(t *testing.T) {
	inv := validInvitation()
	inv.Consumed = true
	flow := newTestFlow(t, &fakeBackend{invitation: inv})

	state, err := flow.VerifyToken(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if state != StateTokenInvalid {
		t.Errorf("state = %s, want %s", state, StateTokenInvalid)
	}
}

func TestVerifyEmptyTokenIsLocal(t *testing.T) {
	backend := &fakeBackend{}
	flow := newTestFlow(t, backend)

	_, err := flow.VerifyToken(context.Background(), "")
	if util.CodeOf(err) != util.CodeValidationFailed {
		t.Errorf("error = %v, want validation failure", err)
	}
	if backend.verifyCalls != 0 {
		t.Error("empty token reached the network")
	}
}

func TestExpiredTokenRejectsConsumeWithoutNetwork(t *testing.T) {
	inv := validInvitation()
	inv.ExpiresAt = time.Now().Add(-time.Second)
	backend := &fakeBackend{invitation: inv}
	flow := newTestFlow(t, backend)

	state, err := flow.VerifyToken(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if state != StateTokenExpired {
		t.Fatalf("state = %s, want %s", state, StateTokenExpired)
	}

	_, err = flow.Consume(context.Background(), "password1")
	if util.CodeOf(err) != util.CodeAuthenticationFailed {
		t.Errorf("error = %v, want authentication failure", err)
	}
	if backend.consumeCall != 0 {
		t.Error("consume on expired token reached the network")
	}
}

func TestConsumeYieldsTripleAndTerminates(t *testing.T) {
	backend := &fakeBackend{invitation: validInvitation()}
	flow := newTestFlow(t, backend)

	if _, err := flow.VerifyToken(context.Background(), "inv-1"); err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	res, err := flow.Consume(context.Background(), "password1")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if res.Token != "invited-token" || res.Identity.Role != domain.RoleEmployee {
		t.Errorf("unexpected result %+v", res)
	}
	if flow.State() != StateConsumed {
		t.Errorf("state = %s, want %s", flow.State(), StateConsumed)
	}

	// Consumed is terminal.
	if _, err := flow.Consume(context.Background(), "password1"); err == nil {
		t.Error("second consume should be rejected")
	}
}

func TestConsumeFailedAllowsRetry(t *testing.T) {
	backend := &fakeBackend{invitation: validInvitation(), consumeErr: http.StatusBadRequest}
	flow := newTestFlow(t, backend)

	if _, err := flow.VerifyToken(context.Background(), "inv-1"); err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if _, err := flow.Consume(context.Background(), "weak"); err == nil {
		t.Fatal("expected consume failure")
	}
	if flow.State() != StateConsumeFailed {
		t.Fatalf("state = %s, want %s", flow.State(), StateConsumeFailed)
	}

	backend.consumeErr = 0
	res, err := flow.Consume(context.Background(), "corrected-password")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if res.Token != "invited-token" {
		t.Errorf("unexpected token %q", res.Token)
	}
}

func TestConsumeBeforeVerifyIsRejected(t *testing.T) {
	backend := &fakeBackend{invitation: validInvitation()}
	flow := newTestFlow(t, backend)

	if _, err := flow.Consume(context.Background(), "password1"); util.CodeOf(err) != util.CodeValidationFailed {
		t.Errorf("error = %v, want validation failure", err)
	}
	if backend.consumeCall != 0 {
		t.Error("unverified consume reached the network")
	}
}
