package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/givechain/donation-middleware/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.BackendConfig{BaseURL: baseURL}, zap.NewNop())
}

func TestClient_Enabled(t *testing.T) {
	if newTestClient("").Enabled() {
		t.Error("Expected client without base URL to be disabled")
	}
	if !newTestClient("http://localhost:3000").Enabled() {
		t.Error("Expected configured client to be enabled")
	}
}

func TestRecordDonation(t *testing.T) {
	var got DonationEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/donations" {
			t.Errorf("Expected /api/donations, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	entry := DonationEntry{
		CampaignID:      5,
		Amount:          "100000000000000000",
		Donor:           "0xAAA",
		TransactionHash: "0x01",
		IsBlockchain:    true,
		Status:          "completed",
	}
	if err := client.RecordDonation(context.Background(), entry); err != nil {
		t.Fatalf("RecordDonation failed: %v", err)
	}

	if got.CampaignID != 5 || got.TransactionHash != "0x01" {
		t.Errorf("Unexpected payload %+v", got)
	}
	if got.IdempotencyKey == "" {
		t.Error("Expected idempotency key to be generated")
	}
}

func TestRecordDonation_KeepsProvidedIdempotencyKey(t *testing.T) {
	var got DonationEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.RecordDonation(context.Background(), DonationEntry{IdempotencyKey: "key-1"})
	if err != nil {
		t.Fatalf("RecordDonation failed: %v", err)
	}
	if got.IdempotencyKey != "key-1" {
		t.Errorf("Expected caller key to survive, got %s", got.IdempotencyKey)
	}
}

func TestRecordDonation_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate entry", http.StatusConflict)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if err := client.RecordDonation(context.Background(), DonationEntry{}); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}

func TestListCampaignDonations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/donations/campaign/5" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]Donation{
			{ID: "d1", CampaignID: 5, Amount: "100"},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	donations, err := client.ListCampaignDonations(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListCampaignDonations failed: %v", err)
	}
	if len(donations) != 1 || donations[0].ID != "d1" {
		t.Errorf("Unexpected donations %+v", donations)
	}
}
