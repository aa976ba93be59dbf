package models

import "time"

// BookingStatus enumerates reservation lifecycle states as reported by the
// platform core. Only completed bookings carry trustworthy odometer pairs.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// BookingOdometerRecord is the odometer view of one reservation. Mileage
// pointers are nil when a reading was never captured; nil is never zero.
type BookingOdometerRecord struct {
	BookingID    string        `json:"booking_id"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date,omitzero"`
	StartMileage *int64        `json:"start_mileage"`
	EndMileage   *int64        `json:"end_mileage"`
	Status       BookingStatus `json:"status"`
}

// HasReadings reports whether both odometer readings are present.
func (b BookingOdometerRecord) HasReadings() bool {
	return b.StartMileage != nil && b.EndMileage != nil
}

// UsageCategory is the owner-declared intended use of a vehicle. It selects
// the mileage-gap tolerance policy applied during forensics.
type UsageCategory string

const (
	UsageRentalOnly UsageCategory = "RentalOnly"
	UsageMixed      UsageCategory = "Mixed"
	UsageBusiness   UsageCategory = "Business"
)

// DocumentationFlags captures the paperwork state the platform core knows
// about a vehicle.
type DocumentationFlags struct {
	HasRegisteredOwner bool `json:"has_registered_owner"`
	HasVIN             bool `json:"has_vin"`
	HasLicensePlate    bool `json:"has_license_plate"`
	ServiceOverdue     bool `json:"service_overdue"`
	InspectionExpired  bool `json:"inspection_expired"`
}

// VehicleUsageContext is the per-vehicle input to the compliance engine.
type VehicleUsageContext struct {
	VehicleID                    string             `json:"vehicle_id"`
	CurrentMileage               int64              `json:"current_mileage"`
	UsageCategory                UsageCategory      `json:"usage_category"`
	LastCompletedBookingEndMiles *int64             `json:"last_completed_booking_end_mileage,omitempty"`
	LastCompletedBookingEndDate  time.Time          `json:"last_completed_booking_end_date,omitzero"`
	Documentation                DocumentationFlags `json:"documentation"`
}
