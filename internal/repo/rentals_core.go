package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/drivora/drivora-compliance/internal/models"
	"github.com/drivora/drivora-compliance/internal/utils"
)

// RentalsCoreClient wraps the platform core vehicle and booking APIs. The
// engine never talks to it; the service layer uses it to assemble engine
// input for the by-vehicle endpoints.
type RentalsCoreClient struct {
	baseURL      string
	vehiclePath  string
	bookingsPath string
	httpClient   *http.Client
}

// NewRentalsCoreClient constructs a client targeting the configured platform
// core instance. bookingsPath is a printf pattern receiving the vehicle ID.
func NewRentalsCoreClient(baseURL, vehiclePath, bookingsPath string, timeout time.Duration) *RentalsCoreClient {
	return &RentalsCoreClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		vehiclePath:  vehiclePath,
		bookingsPath: bookingsPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchVehicle retrieves the usage context for one vehicle.
func (c *RentalsCoreClient) FetchVehicle(ctx context.Context, vehicleID string) (models.VehicleUsageContext, error) {
	if c == nil || c.baseURL == "" {
		return models.VehicleUsageContext{}, utils.NewAppError("repo.FetchVehicle", "rentals core base URL not configured", nil)
	}

	var response struct {
		Vehicle models.VehicleUsageContext `json:"vehicle"`
	}
	endpoint := c.endpoint(fmt.Sprintf("%s/%s", strings.TrimRight(c.vehiclePath, "/"), url.PathEscape(vehicleID)))
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return models.VehicleUsageContext{}, utils.NewAppError("repo.FetchVehicle", "rentals core request failed", err)
	}
	if response.Vehicle.VehicleID == "" {
		response.Vehicle.VehicleID = vehicleID
	}
	return response.Vehicle, nil
}

// FetchBookings retrieves the booking odometer records for one vehicle,
// ordered by start date on the platform side. The analyzer re-sorts anyway.
func (c *RentalsCoreClient) FetchBookings(ctx context.Context, vehicleID string) ([]models.BookingOdometerRecord, error) {
	if c == nil || c.baseURL == "" {
		return nil, utils.NewAppError("repo.FetchBookings", "rentals core base URL not configured", nil)
	}

	var response struct {
		Bookings []models.BookingOdometerRecord `json:"bookings"`
	}
	endpoint := c.endpoint(fmt.Sprintf(c.bookingsPath, url.PathEscape(vehicleID)))
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, utils.NewAppError("repo.FetchBookings", "rentals core request failed", err)
	}
	return response.Bookings, nil
}

func (c *RentalsCoreClient) endpoint(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.baseURL + p
}

func (c *RentalsCoreClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
