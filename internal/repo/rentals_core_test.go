package repo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drivora/drivora-compliance/internal/models"
)

func newRentalsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/vehicles/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, map[string]any{
			"vehicle": models.VehicleUsageContext{
				VehicleID:      r.PathValue("id"),
				CurrentMileage: 42000,
				UsageCategory:  models.UsageMixed,
			},
		})
	})
	mux.HandleFunc("GET /api/v1/vehicles/{id}/bookings", func(w http.ResponseWriter, _ *http.Request) {
		miles := int64(41000)
		writeTestJSON(t, w, map[string]any{
			"bookings": []models.BookingOdometerRecord{{
				BookingID:    "bk-1",
				StartDate:    time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
				StartMileage: &miles,
				Status:       models.BookingStatusCompleted,
			}},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("encode payload: %v", err)
	}
}

func TestFetchVehicle(t *testing.T) {
	server := newRentalsServer(t)
	client := NewRentalsCoreClient(server.URL, "/api/v1/vehicles", "/api/v1/vehicles/%s/bookings", time.Second)

	vehicle, err := client.FetchVehicle(context.Background(), "veh-7")
	if err != nil {
		t.Fatalf("fetch vehicle: %v", err)
	}
	if vehicle.VehicleID != "veh-7" {
		t.Fatalf("vehicle id = %q", vehicle.VehicleID)
	}
	if vehicle.CurrentMileage != 42000 || vehicle.UsageCategory != models.UsageMixed {
		t.Fatalf("vehicle = %+v", vehicle)
	}
}

func TestFetchBookings(t *testing.T) {
	server := newRentalsServer(t)
	client := NewRentalsCoreClient(server.URL, "/api/v1/vehicles", "/api/v1/vehicles/%s/bookings", time.Second)

	bookings, err := client.FetchBookings(context.Background(), "veh-7")
	if err != nil {
		t.Fatalf("fetch bookings: %v", err)
	}
	if len(bookings) != 1 || bookings[0].BookingID != "bk-1" {
		t.Fatalf("bookings = %+v", bookings)
	}
	if bookings[0].EndMileage != nil {
		t.Fatal("absent end mileage must decode as nil, not zero")
	}
}

func TestFetchVehicleServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)
	client := NewRentalsCoreClient(server.URL, "/api/v1/vehicles", "/api/v1/vehicles/%s/bookings", time.Second)

	if _, err := client.FetchVehicle(context.Background(), "veh-7"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestClientWithoutBaseURL(t *testing.T) {
	client := NewRentalsCoreClient("", "/api/v1/vehicles", "/api/v1/vehicles/%s/bookings", time.Second)
	if _, err := client.FetchVehicle(context.Background(), "veh-7"); err == nil {
		t.Fatal("expected error when base URL is unset")
	}
	if _, err := client.FetchBookings(context.Background(), "veh-7"); err == nil {
		t.Fatal("expected error when base URL is unset")
	}
}
