package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/docuport/console-gateway/internal/config"
	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/internal/observability"
	"github.com/docuport/console-gateway/pkg/util"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.UpstreamConfig{BaseURL: server.URL, TimeoutSeconds: 5}, zap.NewNop(), observability.NewMetrics())
}

func TestAuthorizedCallsCarryBearerToken(t *testing.T) {
	var header string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[]"))
	}))

	if _, err := client.ListFolders(context.Background(), "cred-123", TenantScope("t-1")); err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if header != "Bearer cred-123" {
		t.Errorf("Authorization = %q", header)
	}
}

func TestLoginOmitsAbsentTenantHint(t *testing.T) {
	var body map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(LoginResult{
			Token:    "tok",
			Identity: domain.Identity{ID: "u1", Role: domain.RoleEmployee},
			Tenant:   &domain.Tenant{ID: "t-1"},
		})
	}))

	if _, err := client.Login(context.Background(), "alice", "pw", ""); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, present := body["tenantId"]; present {
		t.Error("tenantId sent despite absent hint")
	}
}

func TestErrorPayloadSurfacesVerbatim(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"ACCOUNT_LOCKED","message":"account locked"}}`))
	}))

	_, err := client.Login(context.Background(), "alice", "pw", "t-1")
	domainErr := util.ToDomainError(err)
	if domainErr.Code != util.CodeAuthenticationFailed {
		t.Fatalf("code = %s", domainErr.Code)
	}
	if domainErr.Message != "account locked" {
		t.Errorf("message = %q", domainErr.Message)
	}
	if domainErr.Details["upstream"] == nil {
		t.Error("upstream payload not carried through")
	}
}

func TestServerErrorsMapToUpstreamFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.ChatHistory(context.Background(), "cred", SystemScope())
	if util.CodeOf(err) != util.CodeUpstreamUnavailable {
		t.Errorf("error = %v, want upstream failure", err)
	}
}

func TestTransportFailureMapsToUpstreamFailure(t *testing.T) {
	client := New(config.UpstreamConfig{BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1}, zap.NewNop(), observability.NewMetrics())

	_, err := client.ListFolders(context.Background(), "cred", SystemScope())
	if util.CodeOf(err) != util.CodeUpstreamUnavailable {
		t.Errorf("error = %v, want upstream failure", err)
	}
}

// folderBackend mimics the platform's folder-on-first-upload behavior.
type folderBackend struct {
	folders map[string]int
}

func (f *folderBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /company/t-1/documents", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		folder := r.FormValue("folder")
		if folder != "" {
			f.folders[folder]++
		}
		_ = json.NewEncoder(w).Encode(domain.DocumentRecord{ID: "d1", Name: "a.pdf", Folder: folder, UploadedAt: time.Now()})
	})
	mux.HandleFunc("GET /company/t-1/folders", func(w http.ResponseWriter, r *http.Request) {
		out := make([]domain.Folder, 0, len(f.folders))
		for name, count := range f.folders {
			out = append(out, domain.Folder{Name: name, DocumentCount: count})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	return mux
}

func TestUploadIntoNewFolderCreatesIt(t *testing.T) {
	backend := &folderBackend{folders: map[string]int{}}
	client := newTestClient(t, backend.handler())
	ctx := context.Background()
	scope := TenantScope("t-1")

	doc, err := client.UploadDocument(ctx, "cred", scope, strings.NewReader("content"), "a.pdf", "NewFolder")
	if err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}
	if doc.Folder != "NewFolder" {
		t.Errorf("document folder = %q", doc.Folder)
	}

	folders, err := client.ListFolders(ctx, "cred", scope)
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	found := false
	for _, f := range folders {
		if f.Name == "NewFolder" {
			found = true
		}
	}
	if !found {
		t.Errorf("NewFolder missing from %v", folders)
	}
}
