package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoWorkHub/coworking_booking_app/internal/core/domain"
)

// AnalyticsParams bound from query parameters for the admin analytics routes.
type AnalyticsParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// RevenuePointResponse is one day of the revenue series.
type RevenuePointResponse struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// BookingCountResponse is one day of the booking-count series.
type BookingCountResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// OccupancyResponse is one day of the occupancy series.
type OccupancyResponse struct {
	Date string          `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// PaymentMethodStatResponse aggregates succeeded payments per method.
type PaymentMethodStatResponse struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// PopularSpaceResponse is one row of the most-booked-spaces ranking.
type PopularSpaceResponse struct {
	SpaceID      string `json:"spaceID"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	BookingCount int    `json:"bookingCount"`
}

// DashboardStatsResponse carries the headline admin dashboard numbers.
type DashboardStatsResponse struct {
	TotalUsers     int             `json:"totalUsers"`
	TotalSpaces    int             `json:"totalSpaces"`
	ActiveBookings int             `json:"activeBookings"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
}

// UserStatsResponse breaks the user base down by role and membership.
type UserStatsResponse struct {
	TotalUsers        int            `json:"totalUsers"`
	ActiveUsers       int            `json:"activeUsers"`
	UsersByRole       map[string]int `json:"usersByRole"`
	UsersByMembership map[string]int `json:"usersByMembership"`
}

// MemberStatsResponse carries a member's own booking and spend totals.
type MemberStatsResponse struct {
	UpcomingBookings  int             `json:"upcomingBookings"`
	CompletedBookings int             `json:"completedBookings"`
	HoursBooked       decimal.Decimal `json:"hoursBooked"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
}

const reportDateLayout = "2006-01-02"

// ToRevenueResponses converts domain revenue points to their DTO form.
func ToRevenueResponses(points []domain.RevenuePoint) []RevenuePointResponse {
	out := make([]RevenuePointResponse, len(points))
	for i, p := range points {
		out[i] = RevenuePointResponse{Date: p.Date.Format(reportDateLayout), Revenue: p.Amount}
	}
	return out
}

// ToBookingCountResponses converts domain booking counts to their DTO form.
func ToBookingCountResponses(points []domain.BookingCountPoint) []BookingCountResponse {
	out := make([]BookingCountResponse, len(points))
	for i, p := range points {
		out[i] = BookingCountResponse{Date: p.Date.Format(reportDateLayout), Count: p.Count}
	}
	return out
}

// ToOccupancyResponses converts domain occupancy points to their DTO form.
func ToOccupancyResponses(points []domain.OccupancyPoint) []OccupancyResponse {
	out := make([]OccupancyResponse, len(points))
	for i, p := range points {
		out[i] = OccupancyResponse{Date: p.Date.Format(reportDateLayout), Rate: p.Rate}
	}
	return out
}

// ToPaymentMethodStatResponses converts domain payment stats to their DTO form.
func ToPaymentMethodStatResponses(stats []domain.PaymentMethodStat) []PaymentMethodStatResponse {
	out := make([]PaymentMethodStatResponse, len(stats))
	for i, s := range stats {
		out[i] = PaymentMethodStatResponse{Method: string(s.Method), Count: s.Count, Total: s.Total}
	}
	return out
}

// ToPopularSpaceResponses converts domain popular-space rows to their DTO form.
func ToPopularSpaceResponses(rows []domain.PopularSpace) []PopularSpaceResponse {
	out := make([]PopularSpaceResponse, len(rows))
	for i, r := range rows {
		out[i] = PopularSpaceResponse{SpaceID: r.SpaceID, Name: r.Name, Type: string(r.Type), BookingCount: r.BookingCount}
	}
	return out
}

// ToDashboardStatsResponse converts domain dashboard stats to their DTO form.
func ToDashboardStatsResponse(s domain.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		TotalUsers:     s.TotalUsers,
		TotalSpaces:    s.TotalSpaces,
		ActiveBookings: s.ActiveBookings,
		TotalRevenue:   s.TotalRevenue,
	}
}

// ToUserStatsResponse converts domain user stats to their DTO form.
func ToUserStatsResponse(s domain.UserStats) UserStatsResponse {
	byRole := make(map[string]int, len(s.UsersByRole))
	for role, n := range s.UsersByRole {
		byRole[string(role)] = n
	}
	byMembership := make(map[string]int, len(s.UsersByMembership))
	for m, n := range s.UsersByMembership {
		byMembership[string(m)] = n
	}
	return UserStatsResponse{
		TotalUsers:        s.TotalUsers,
		ActiveUsers:       s.ActiveUsers,
		UsersByRole:       byRole,
		UsersByMembership: byMembership,
	}
}

// ToMemberStatsResponse converts a member's stats to their DTO form.
func ToMemberStatsResponse(s domain.MemberStats) MemberStatsResponse {
	return MemberStatsResponse{
		UpcomingBookings:  s.UpcomingBookings,
		CompletedBookings: s.CompletedBookings,
		HoursBooked:       s.HoursBooked,
		TotalSpent:        s.TotalSpent,
	}
}
