package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type vehicleContext struct {
	VehicleID                    string             `json:"vehicle_id"`
	CurrentMileage               int64              `json:"current_mileage"`
	UsageCategory                string             `json:"usage_category"`
	LastCompletedBookingEndMiles *int64             `json:"last_completed_booking_end_mileage,omitempty"`
	LastCompletedBookingEndDate  time.Time          `json:"last_completed_booking_end_date"`
	Documentation                documentationFlags `json:"documentation"`
}

type documentationFlags struct {
	HasRegisteredOwner bool `json:"has_registered_owner"`
	HasVIN             bool `json:"has_vin"`
	HasLicensePlate    bool `json:"has_license_plate"`
	ServiceOverdue     bool `json:"service_overdue"`
	InspectionExpired  bool `json:"inspection_expired"`
}

type bookingRecord struct {
	BookingID    string     `json:"booking_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	StartMileage *int64     `json:"start_mileage,omitempty"`
	EndMileage   *int64     `json:"end_mileage,omitempty"`
	Status       string     `json:"status"`
}

func mi(v int64) *int64 { return &v }

func ts(daysAgo int) time.Time {
	return time.Now().AddDate(0, 0, -daysAgo).Truncate(time.Hour)
}

func tsp(daysAgo int) *time.Time {
	t := ts(daysAgo)
	return &t
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/v1/vehicles/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"vehicle": vehicleContext{
				VehicleID:                    r.PathValue("id"),
				CurrentMileage:               45210,
				UsageCategory:                "RentalOnly",
				LastCompletedBookingEndMiles: mi(45180),
				LastCompletedBookingEndDate:  ts(2),
				Documentation: documentationFlags{
					HasRegisteredOwner: true,
					HasVIN:             true,
					HasLicensePlate:    true,
				},
			},
		})
	})

	mux.HandleFunc("GET /api/v1/vehicles/{id}/bookings", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"bookings": []bookingRecord{
				{
					BookingID:    "bk-1001",
					StartDate:    ts(30),
					EndDate:      tsp(27),
					StartMileage: mi(44200),
					EndMileage:   mi(44560),
					Status:       "completed",
				},
				{
					BookingID:    "bk-1002",
					StartDate:    ts(20),
					EndDate:      tsp(18),
					StartMileage: mi(44570),
					EndMileage:   mi(44840),
					Status:       "completed",
				},
				{
					BookingID:    "bk-1003",
					StartDate:    ts(10),
					EndDate:      tsp(7),
					StartMileage: mi(44850),
					EndMileage:   mi(45180),
					Status:       "completed",
				},
				{
					BookingID: "bk-1004",
					StartDate: ts(1),
					Status:    "in_progress",
				},
			},
		})
	})

	logger := log.New(log.Writer(), "rentals-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":8080",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :8080")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
