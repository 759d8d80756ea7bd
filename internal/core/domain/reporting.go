package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenuePoint is one day's summed revenue from succeeded payments.
type RevenuePoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// BookingCountPoint is one day's booking count.
type BookingCountPoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// OccupancyPoint is one day's occupancy rate in percent, capped at 100.
type OccupancyPoint struct {
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// PaymentMethodStat aggregates succeeded payments per method.
type PaymentMethodStat struct {
	Method PaymentMethod   `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// PopularSpace is one row of the most-booked-spaces ranking.
type PopularSpace struct {
	SpaceID      string    `json:"spaceID"`
	Name         string    `json:"name"`
	Type         SpaceType `json:"type"`
	BookingCount int       `json:"bookingCount"`
}

// DashboardStats are the headline numbers for the admin dashboard.
type DashboardStats struct {
	TotalUsers     int             `json:"totalUsers"`
	TotalSpaces    int             `json:"totalSpaces"`
	ActiveBookings int             `json:"activeBookings"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
}

// MemberStats are the headline numbers for a member's own dashboard.
type MemberStats struct {
	UpcomingBookings  int             `json:"upcomingBookings"`
	CompletedBookings int             `json:"completedBookings"`
	HoursBooked       decimal.Decimal `json:"hoursBooked"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
}

// UserStats breaks the user base down by role, membership and status.
type UserStats struct {
	TotalUsers        int                    `json:"totalUsers"`
	ActiveUsers       int                    `json:"activeUsers"`
	UsersByRole       map[UserRole]int       `json:"usersByRole"`
	UsersByMembership map[MembershipType]int `json:"usersByMembership"`
}
